// Package pipeline runs the two stackdistro pipelines.
//
// The build pipeline turns the resolver's dependency listing into the
// container recipe:
//
//  1. Toolchain: check uv, install the base dependency from source, check
//     the llama CLI and the installed version
//  2. Resolve: run the dependency listing and parse it into directives
//  3. Assemble: normalize, categorize and order the install instructions
//  4. Render: lint the instructions, fill the template and write the recipe
//
// The docs pipeline reads the generated recipe back to find the base
// version, then renders the provider table from the run and build configs.
//
// # Usage
//
//	runner := pipeline.NewRunner(resolver.New(nil, logger), cache, logger)
//	result, err := runner.Build(ctx, pipeline.BuildOptions{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Output)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/distro"
	"github.com/matzehuels/stackdistro/pkg/version"
)

// =============================================================================
// Options
// =============================================================================

// BuildOptions configures a recipe build.
type BuildOptions struct {
	Config distro.Config

	// StrictFlags rejects unknown --flags in resolver output.
	StrictFlags bool
	// SkipInstall skips installing the base dependency from source.
	SkipInstall bool
	// Generator is written into the recipe header.
	Generator string

	// OnResolve is called around the dependency listing, which can take
	// minutes. The returned function is called when it finishes.
	OnResolve func() func()

	Logger *log.Logger `json:"-"`
}

// DocsOptions configures a README build.
type DocsOptions struct {
	Config distro.Config

	Logger *log.Logger `json:"-"`
}

// =============================================================================
// Results
// =============================================================================

// BuildResult is the outcome of a recipe build.
type BuildResult struct {
	// Output is the path the recipe was written to.
	Output string
	// Content is the rendered recipe.
	Content string
	// Body holds the assembled install instructions.
	Body deps.Body
	// Directives is the number of parsed resolver lines.
	Directives int
	// SourceInstall is the source install instruction, empty for releases.
	SourceInstall string

	Stats BuildStats
}

// BuildStats contains build timings.
type BuildStats struct {
	ResolveTime  time.Duration
	AssembleTime time.Duration
	Total        time.Duration
}

// DocsResult is the outcome of a README build.
type DocsResult struct {
	// Output is the path the README was written to.
	Output string
	// Content is the rendered README.
	Content string
	// Ref is the base version found in the recipe.
	Ref version.Ref
	// Link is the version shown in the header.
	Link version.Link
	// Rows is the number of provider rows.
	Rows int
	// ResolvedFromCache is set when the branch head came from the cache.
	ResolvedFromCache bool
}
