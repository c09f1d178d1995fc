package pipeline

import (
	"context"
	"os"

	"github.com/matzehuels/stackdistro/pkg/distro"
	"github.com/matzehuels/stackdistro/pkg/docs"
	"github.com/matzehuels/stackdistro/pkg/errors"
	"github.com/matzehuels/stackdistro/pkg/observability"
	"github.com/matzehuels/stackdistro/pkg/recipe"
	"github.com/matzehuels/stackdistro/pkg/version"
)

// Docs renders the README from the generated recipe and the run and build
// configs, and writes it to Paths.Readme.
func (r *Runner) Docs(ctx context.Context, opts DocsOptions) (*DocsResult, error) {
	cfg := opts.Config
	logger := r.logger(opts.Logger)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.Paths.RunConfig); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "run config %s", cfg.Paths.RunConfig)
	}

	content, err := os.ReadFile(cfg.Paths.Output)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe %s", cfg.Paths.Output).
			WithHint("run 'stackdistro build' first")
	}

	result := &DocsResult{Output: cfg.Paths.Readme}
	ref, err := version.ExtractFromRecipe(string(content))
	if err != nil {
		return nil, err
	}
	result.Ref = ref

	v := ref.Version
	if ref.Main {
		commit, hit, err := r.Lookup.ResolveBranch(ctx, version.RepoURL(ref.Owner), version.Main)
		if err != nil {
			logger.Warn("could not resolve main branch head, linking to main", "err", errors.UserMessage(err))
		} else {
			v, result.ResolvedFromCache = commit, hit
		}
	}
	result.Link = version.LinkFor(ref.Owner, v)
	logger.Debug("base version", "version", v, "owner", ref.Owner, "link", result.Link.URL)

	run, err := distro.LoadRunConfig(cfg.Paths.RunConfig)
	if err != nil {
		return nil, err
	}
	build, err := distro.LoadBuildConfig(cfg.Paths.BuildConfig)
	if err != nil {
		return nil, err
	}

	rows, err := docs.BuildRows(run, build.ExternalProviders())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", cfg.Paths.RunConfig)
	}
	result.Rows = len(rows)

	result.Content = docs.Render(docs.HeaderData{
		Title:     cfg.Docs.Title,
		Vendor:    cfg.Docs.Vendor,
		Generator: cfg.Docs.Generator,
		Version:   result.Link,
	}, rows)

	err = recipe.WriteFile(cfg.Paths.Readme, result.Content)
	observability.Pipeline().OnWrite(ctx, cfg.Paths.Readme, len(result.Content), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
