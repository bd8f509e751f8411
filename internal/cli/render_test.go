package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/depviz/pkg/pipeline"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", "visualisation"},
		{"tree", "tree"},
		{"out/tree.svg", "out/tree"},
		{"out/tree.tex", "out/tree"},
		{"out/tree.jpg", "out/tree"},
		{"tree.v2", "tree.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			if got := basePath(tt.output); got != tt.want {
				t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	artifacts := map[string][]byte{
		"svg":   []byte("<svg/>"),
		"latex": []byte(`\begin{dependency}`),
	}

	t.Run("single format keeps the output name", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "nested", "tree.svg")
		err := writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"svg"}, output: out})
		if err != nil {
			t.Fatal(err)
		}
		assertFile(t, out, "<svg/>")
	})

	t.Run("multiple formats share the base path", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "tree")
		err := writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"svg", "latex"}, output: base + ".svg"})
		if err != nil {
			t.Fatal(err)
		}
		assertFile(t, base+".svg", "<svg/>")
		assertFile(t, base+".tex", `\begin{dependency}`)
	})

	t.Run("missing artifact is skipped", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "tree")
		err := writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"svg", "png"}, output: base})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(base + ".png"); !os.IsNotExist(err) {
			t.Error("png should not be written")
		}
	})

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"latex"}, output: "-", stdout: &buf})
		if err != nil {
			t.Fatal(err)
		}
		if buf.String() != `\begin{dependency}` {
			t.Errorf("stdout = %q", buf.String())
		}
	})

	t.Run("stdout needs one format", func(t *testing.T) {
		err := writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"svg", "latex"}, output: "-"})
		if err == nil {
			t.Error("expected error for several formats on stdout")
		}
	})
}

func TestLayoutFlagsApply(t *testing.T) {
	var f layoutFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse([]string{"--width", "1200", "--select", "2,0", "--shorten"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Width: 640, Height: 300, MaxScale: 3}
	f.apply(&opts)

	if opts.Width != 1200 {
		t.Errorf("Width = %g, want 1200 from flag", opts.Width)
	}
	if opts.Height != 300 || opts.MaxScale != 3 {
		t.Errorf("unset flags must keep configured values, got height %g max scale %g", opts.Height, opts.MaxScale)
	}
	if len(opts.Selected) != 2 || opts.Selected[0] != 2 || opts.Selected[1] != 0 {
		t.Errorf("Selected = %v", opts.Selected)
	}
	if !opts.Shorten {
		t.Error("Shorten should be set")
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("%s = %q, want %q", path, got, want)
	}
}
