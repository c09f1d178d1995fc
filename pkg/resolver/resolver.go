// Package resolver drives the external toolchain: it checks that uv and the
// llama CLI are installed, installs the base dependency from source, checks
// its version and runs the dependency listing whose output feeds the recipe.
package resolver

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdistro/pkg/errors"
	"github.com/matzehuels/stackdistro/pkg/version"
)

// Tool is an executable the pipeline depends on.
type Tool struct {
	Name string
	// Package provides Name; empty when there is no pip package for it.
	Package string
}

// Tools used by the build pipeline.
var (
	UV    = Tool{Name: "uv"}
	Llama = Tool{Name: "llama", Package: "llama-stack-client"}
)

// Resolver runs the toolchain through a Runner.
type Resolver struct {
	Runner Runner
	Logger *log.Logger
}

// New returns a Resolver. A nil runner runs real commands; a nil logger uses
// log.Default().
func New(runner Runner, logger *log.Logger) *Resolver {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{Runner: runner, Logger: logger}
}

// CheckInstalled returns an ENVIRONMENT error for the first tool not found in
// PATH, with a hint on how to install it.
func (r *Resolver) CheckInstalled(tools ...Tool) error {
	for _, t := range tools {
		path, err := r.Runner.LookPath(t.Name)
		if err != nil {
			e := errors.Wrap(errors.ErrCodeEnvironment, err, "%s not found", t.Name)
			if t.Package != "" {
				return e.WithHint("run uv pip install %s", t.Package)
			}
			return e.WithHint("install %s and make sure it is in PATH", t.Name)
		}
		r.Logger.Debug("found tool", "name", t.Name, "path", path)
	}
	return nil
}

// InstallFromSource installs the base dependency at rev from owner's
// repository into the current environment.
func (r *Resolver) InstallFromSource(ctx context.Context, owner, rev string) error {
	req := version.SourceRequirement(owner, rev)
	r.Logger.Info("installing from source", "requirement", req)
	out, err := r.Runner.Run(ctx, "uv", "pip", "install", req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCommandFailed, err, "install %s from source", version.Package)
	}
	if s := strings.TrimSpace(string(out)); s != "" {
		r.Logger.Debug(s)
	}
	return nil
}

// InstalledVersion returns the version reported by the llama CLI.
func (r *Resolver) InstalledVersion(ctx context.Context) (string, error) {
	out, err := r.Runner.Run(ctx, "llama", "stack", "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CheckVersion compares the installed base dependency against expected. A
// failure to query the installed version is logged and ignored; a mismatch
// is a VERSION_MISMATCH error.
func (r *Resolver) CheckVersion(ctx context.Context, expected string) error {
	installed, err := r.InstalledVersion(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.Logger.Warn("could not check installed version, continuing without validation", "err", errors.UserMessage(err))
		return nil
	}
	r.Logger.Debug("installed version", "version", installed, "expected", expected)
	return version.Check(expected, installed)
}

// ListDeps runs the dependency listing for the distribution config and
// returns its raw output.
func (r *Resolver) ListDeps(ctx context.Context, config string) ([]byte, error) {
	out, err := r.Runner.Run(ctx, "llama", "stack", "list-deps", config)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeCommandFailed, err, "list dependencies of %s", config)
	}
	return out, nil
}
