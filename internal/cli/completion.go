package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/pipeline"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for bash, zsh, fish or powershell.

  $ source <(depviz completion bash)
  $ depviz completion zsh > "${fpath[1]}/_depviz"
  $ depviz completion fish > ~/.config/fish/completions/depviz.fish
  PS> depviz completion powershell | Out-String | Invoke-Expression

Format names (-f), visualization types (-t) and converters (--converter)
are completed as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerCompletions adds dynamic completions for the layout and export
// flags present on cmd, and restricts file arguments to sentence inputs.
func registerCompletions(cmd *cobra.Command) {
	noFiles := cobra.ShellCompDirectiveNoFileComp
	funcs := map[string]cobra.CompletionFunc{
		"format":    completeFormats,
		"type":      cobra.FixedCompletions(slices.Sorted(maps.Keys(pipeline.ValidVizTypes)), noFiles),
		"converter": cobra.FixedCompletions([]string{"chrome", "rsvg"}, noFiles),
	}
	for name, fn := range funcs {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		cobra.CheckErr(cmd.RegisterFlagCompletionFunc(name, fn))
	}
	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "conllu", "conll"}, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeFormats completes the last entry of a comma-separated format list,
// leaving out formats already listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := toComplete[:strings.LastIndex(toComplete, ",")+1]
	listed := strings.Split(prefix, ",")

	var out []string
	for _, f := range slices.Sorted(maps.Keys(pipeline.ValidFormats)) {
		if !slices.Contains(listed, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
