// Package pkg provides the libraries behind stackdistro, the build tool of
// a Llama Stack container distribution.
//
// # Overview
//
// A distribution is described by a resolver config, a run config listing
// the providers, and a build config naming the external provider modules.
// Stackdistro produces two artifacts from them: the container recipe and the
// README. The pkg directory is organized into four areas:
//
//  1. Domain logic: [deps] turns resolver output into install instructions,
//     [recipe] renders and lints the recipe, [docs] renders the provider table
//  2. Distribution metadata: [distro] loads the configs, [version] handles
//     base versions, [gitmeta] resolves branch heads
//  3. Infrastructure: [cache], [errors], [observability], [buildinfo] and
//     [resolver], which runs the external tools
//  4. Orchestration: [pipeline] runs the build and docs pipelines
//
// # Architecture
//
//	llama stack list-deps config.yaml
//	         ↓
//	    [deps] package (parse, normalize, categorize, assemble)
//	         ↓
//	    [recipe] package (lint, fill template)
//	         ↓
//	    Containerfile
//	         ↓
//	    [version] package (read base version back)
//	         ↓
//	    [docs] package (provider table from run.yaml and build.yaml)
//	         ↓
//	    README.md
//
// # Quick Start
//
//	cfg, err := distro.LoadConfig("stackdistro.toml", false)
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	if _, err := runner.Build(ctx, pipeline.BuildOptions{Config: cfg}); err != nil {
//	    return err
//	}
//	if _, err := runner.Docs(ctx, pipeline.DocsOptions{Config: cfg}); err != nil {
//	    return err
//	}
package pkg
