package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdistro/pkg/distro"
	"github.com/matzehuels/stackdistro/pkg/docs"
	"github.com/matzehuels/stackdistro/pkg/pipeline"
)

// docsFlags holds the flags for the docs command.
type docsFlags struct {
	recipe  string
	readme  string
	noCache bool
	preview bool
	style   string
	width   int
}

func (f *docsFlags) apply(cfg *distro.Config) {
	if f.recipe != "" {
		cfg.Paths.Output = f.recipe
	}
	if f.readme != "" {
		cfg.Paths.Readme = f.readme
	}
}

// docsCommand creates the docs command for generating the distribution README.
func (c *CLI) docsCommand() *cobra.Command {
	var flags docsFlags

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the README with the provider table",
		Long: `Generate the README of the distribution.

The base version is read back from the generated recipe. When the recipe
installs from the main branch, the branch head is looked up with
'git ls-remote' and cached. The provider table lists every provider of the
run config, with external providers and enable conditions taken from the
build and run configs.`,
		Example: `  # Write README.md next to the recipe
  stackdistro docs

  # Skip the branch head cache and show the result in the terminal
  stackdistro docs --no-cache --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags.apply(&cfg)
			return c.runDocs(cmd.Context(), cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.recipe, "recipe", "", "generated recipe to read the version from (overrides config)")
	cmd.Flags().StringVarP(&flags.readme, "output", "o", "", "output README path (overrides config)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching of the branch head lookup")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "render the README in the terminal")
	cmd.Flags().StringVar(&flags.style, "style", "auto", "preview style (auto, dark, light, notty)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "preview word wrap width (0 for default)")

	return cmd
}

// runDocs executes the docs pipeline and reports the result.
func (c *CLI) runDocs(ctx context.Context, cfg distro.Config, flags docsFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(logger, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Docs(ctx, pipeline.DocsOptions{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	prog.done("Docs complete")

	if flags.preview {
		out, err := docs.Preview(result.Content, flags.style, flags.width)
		if err != nil {
			return err
		}
		fmt.Print(out)
	}

	printSuccess("Generated %s", StyleHighlight.Render(result.Output))
	printFile(result.Output)
	printKeyValue("Version", StyleLink.Render(result.Link.Display))
	parts := []string{fmt.Sprintf("%d providers", result.Rows)}
	if result.Ref.Main {
		parts = append(parts, cacheStatus(result.ResolvedFromCache))
	}
	printStats(parts)
	return nil
}
