package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		in        string
		want      []string
		notWanted []string
	}{
		{"", []string{"dot", "jpeg", "json", "latex", "pdf", "png", "svg"}, nil},
		{"svg,", []string{"svg,pdf", "svg,png", "svg,latex"}, []string{"svg,svg"}},
		{"svg,latex,p", []string{"svg,latex,pdf", "svg,latex,png"}, []string{"svg,latex,latex"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, dir := completeFormats(nil, nil, tt.in)
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("completeFormats(%q) = %v, missing %q", tt.in, got, w)
				}
			}
			for _, w := range tt.notWanted {
				if slices.Contains(got, w) {
					t.Errorf("completeFormats(%q) offers already listed %q", tt.in, w)
				}
			}
			if dir&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")

	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "--config", cfg, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "depviz") {
				t.Errorf("%s script does not mention depviz", shell)
			}
		})
	}

	if _, err := runCLI(t, "--config", cfg, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestFlagCompletions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"render", "--converter", ""}, []string{"chrome", "rsvg"}},
		{[]string{"render", "-t", ""}, []string{"arcs", "nodelink"}},
		{[]string{"render", "-f", "svg,"}, []string{"svg,png"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, append([]string{cobra.ShellCompRequestCmd}, tt.args...)...)
			if err != nil {
				t.Fatalf("complete: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w+"\n") {
					t.Errorf("completions %q missing %q", out, w)
				}
			}
		})
	}
}
