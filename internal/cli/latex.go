package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/pipeline"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// latexCommand creates the latex command, which prints tikz-dependency
// source for a sentence.
func (c *CLI) latexCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "latex [file]",
		Short: "Print the tikz-dependency LaTeX source of a sentence",
		Long: `Print the tikz-dependency LaTeX source of a sentence.

The output needs \usepackage{tikz-dependency} in the document preamble.
Inputs without a sentence or without a link list produce no output and
exit with an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := sentence.ImportFile(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := c.Config.Options()
			opts.Formats = []string{pipeline.FormatLaTeX}
			opts.Logger = c.Logger
			result, err := runner.Execute(ctx, in, opts)
			if err != nil {
				return err
			}
			if _, ok := result.Artifacts[pipeline.FormatLaTeX]; !ok {
				return fmt.Errorf("%s: %w", args[0], errors.ErrNoResult)
			}

			if output == "" {
				output = "-"
			}
			return writeArtifacts(artifactWriteParams{
				artifacts: result.Artifacts,
				formats:   opts.Formats,
				output:    output,
				stdout:    cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerCompletions(cmd)
	return cmd
}
