package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/distro"
	"github.com/matzehuels/stackdistro/pkg/observability"
	"github.com/matzehuels/stackdistro/pkg/recipe"
	"github.com/matzehuels/stackdistro/pkg/resolver"
)

// Build generates the recipe described by opts.Config and writes it to
// Paths.Output.
func (r *Runner) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	start := time.Now()
	cfg := opts.Config
	logger := r.logger(opts.Logger)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := recipe.LoadTemplate(cfg.Paths.Template)
	if err != nil {
		return nil, err
	}

	if err := r.prepareToolchain(ctx, cfg, opts.SkipInstall); err != nil {
		return nil, err
	}

	result := &BuildResult{Output: cfg.Paths.Output}

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, cfg.Paths.ResolverConfig)
	logger.Info("getting dependencies", "config", cfg.Paths.ResolverConfig)
	resolveStart := time.Now()
	var stop func()
	if opts.OnResolve != nil {
		stop = opts.OnResolve()
	}
	out, err := r.Resolver.ListDeps(ctx, cfg.Paths.ResolverConfig)
	if stop != nil {
		stop()
	}
	result.Stats.ResolveTime = time.Since(resolveStart)
	if err != nil {
		hooks.OnResolveComplete(ctx, cfg.Paths.ResolverConfig, 0, result.Stats.ResolveTime, err)
		return nil, err
	}

	assembleStart := time.Now()
	body, n, err := AssembleRecipe(bytes.NewReader(out), cfg, opts.StrictFlags)
	hooks.OnResolveComplete(ctx, cfg.Paths.ResolverConfig, n, result.Stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}
	result.Body, result.Directives = body, n
	if n == 0 {
		logger.Warn("resolver produced no dependencies", "config", cfg.Paths.ResolverConfig)
	}
	result.Stats.AssembleTime = time.Since(assembleStart)
	hooks.OnAssembleComplete(ctx, len(body), result.Stats.AssembleTime)

	stats := body.Stats()
	logger.Info("assembled install instructions",
		"directives", n,
		"pinned", body.HasPinned(),
		deps.Standard.String(), stats[deps.Standard],
		deps.ExtraIndex.String(), stats[deps.ExtraIndex],
		deps.NoDeps.String(), stats[deps.NoDeps],
		deps.NoCache.String(), stats[deps.NoCache])

	result.SourceInstall = cfg.SourceInstall()
	if result.SourceInstall != "" {
		logger.Info("installing base from source in recipe", "version", cfg.BaseVersion)
	}

	content, err := recipe.Render(tmpl, body, result.SourceInstall, opts.Generator)
	if err != nil {
		return nil, err
	}
	result.Content = content

	err = recipe.WriteFile(cfg.Paths.Output, content)
	hooks.OnWrite(ctx, cfg.Paths.Output, len(content), err)
	if err != nil {
		return nil, err
	}

	result.Stats.Total = time.Since(start)
	return result, nil
}

// prepareToolchain checks uv, installs the base dependency from source,
// checks the llama CLI and, for released versions, the installed version.
func (r *Runner) prepareToolchain(ctx context.Context, cfg distro.Config, skipInstall bool) error {
	if err := r.Resolver.CheckInstalled(resolver.UV); err != nil {
		return err
	}
	if !skipInstall {
		if err := r.Resolver.InstallFromSource(ctx, cfg.SourceRepoOwner, cfg.BaseVersion); err != nil {
			return err
		}
	}
	if err := r.Resolver.CheckInstalled(resolver.Llama); err != nil {
		return err
	}
	if cfg.InstallFromSource() {
		r.Resolver.Logger.Debug("skipping version check for source install", "version", cfg.BaseVersion)
		return nil
	}
	return r.Resolver.CheckVersion(ctx, cfg.BaseVersion)
}

// AssembleRecipe parses resolver output and assembles the ordered install
// instructions with the configured patches, installer and pinned override.
// It returns the body and the number of parsed directives. Instructions that
// would not survive the shell unchanged are rejected.
func AssembleRecipe(out io.Reader, cfg distro.Config, strict bool) (deps.Body, int, error) {
	parser := &deps.Parser{Strict: strict, Normalizer: cfg.Normalizer()}
	directives, err := parser.ParseOutput(out)
	if err != nil {
		return nil, 0, err
	}

	body := deps.Assemble(directives, cfg.AssembleOptions())
	if err := recipe.Lint(body); err != nil {
		return nil, 0, err
	}
	return body, len(directives), nil
}
