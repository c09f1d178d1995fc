package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/distro"
	"github.com/matzehuels/stackdistro/pkg/pipeline"
	"github.com/matzehuels/stackdistro/pkg/recipe"
)

// buildFlags holds the flags for the build command.
type buildFlags struct {
	baseVersion    string
	template       string
	output         string
	resolverConfig string
	strictFlags    bool
	skipInstall    bool
}

// apply overrides config values with the flags that were set.
func (f *buildFlags) apply(cmd *cobra.Command, cfg *distro.Config) {
	if cmd.Flags().Changed("base-version") {
		cfg.BaseVersion = f.baseVersion
	}
	if f.template != "" {
		cfg.Paths.Template = f.template
	}
	if f.output != "" {
		cfg.Paths.Output = f.output
	}
	if f.resolverConfig != "" {
		cfg.Paths.ResolverConfig = f.resolverConfig
	}
}

// buildCommand creates the build command for generating the container recipe.
func (c *CLI) buildCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the container recipe from the resolved dependencies",
		Long: `Generate the container recipe of the distribution.

The base dependency is installed into the build environment, the dependency
listing is resolved with 'llama stack list-deps', and the install directives
are normalized, grouped and sorted into the recipe template. Running build
twice against the same resolver output produces identical files.`,
		Example: `  # Build with stackdistro.toml in the current directory
  stackdistro build

  # Build against a released base version
  stackdistro build --base-version 0.4.1

  # Reuse the current environment and reject unknown resolver flags
  stackdistro build --skip-install --strict-flags`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			return c.runBuild(cmd.Context(), cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.baseVersion, "base-version", "", "base version to build against (overrides config and "+distro.EnvBaseVersion+")")
	cmd.Flags().StringVar(&flags.template, "template", "", "recipe template (overrides config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output recipe path (overrides config)")
	cmd.Flags().StringVar(&flags.resolverConfig, "resolver-config", "", "distribution config passed to the resolver (overrides config)")
	cmd.Flags().BoolVar(&flags.strictFlags, "strict-flags", false, "reject unknown --flags in resolver output")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "do not install the base dependency from source")

	return cmd
}

// runBuild executes the build pipeline and reports the result.
func (c *CLI) runBuild(ctx context.Context, cfg distro.Config, flags buildFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(logger, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Build(ctx, pipeline.BuildOptions{
		Config:      cfg,
		StrictFlags: flags.strictFlags,
		SkipInstall: flags.skipInstall,
		Generator:   recipe.DefaultGenerator,
		OnResolve:   resolveSpinner(ctx),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	prog.done("Build complete")

	printSuccess("Generated %s", StyleHighlight.Render(result.Output))
	printFile(result.Output)
	printBuildStats(result)
	if result.Directives == 0 {
		printWarning("Resolver produced no dependencies; only the pinned override was written")
	}
	fmt.Println()
	printNextStep("Document the providers", appName+" docs")
	return nil
}

// resolveSpinner returns a callback that shows a spinner while the resolver
// runs and hands back the function that stops it.
func resolveSpinner(ctx context.Context) func() func() {
	return func() func() {
		spinner := newSpinnerWithContext(ctx, "Resolving dependencies...")
		spinner.Start()
		return spinner.Stop
	}
}

// printBuildStats prints instruction counts and timings on a single line.
func printBuildStats(result *pipeline.BuildResult) {
	stats := result.Body.Stats()
	var parts []string
	parts = append(parts, fmt.Sprintf("%d directives", result.Directives))
	for _, c := range deps.Categories {
		if n := stats[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	if result.SourceInstall != "" {
		parts = append(parts, "source install")
	}
	parts = append(parts, result.Stats.Total.Round(time.Millisecond).String())
	printStats(parts)
}
