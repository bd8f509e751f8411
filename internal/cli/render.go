package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/depviz/pkg/pipeline"
	"github.com/matzehuels/depviz/pkg/render"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// layoutFlags are the flags shared by every command that lays out a
// sentence. Only flags given on the command line override the config file.
type layoutFlags struct {
	flags    *pflag.FlagSet
	vizType  string
	width    float64
	height   float64
	minScale float64
	maxScale float64
	selected []int
	shorten  bool
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	f.flags = fs
	fs.StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: arcs, nodelink")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "viewport height")
	fs.Float64Var(&f.minScale, "min-scale", pipeline.DefaultMinScale, "lower bound of the fit scale")
	fs.Float64Var(&f.maxScale, "max-scale", pipeline.DefaultMaxScale, "upper bound of the fit scale")
	fs.IntSliceVarP(&f.selected, "select", "s", nil, "token positions to highlight (comma-separated, 0-based)")
	fs.BoolVar(&f.shorten, "shorten", false, "widen arcs of unusually long links")
}

func (f *layoutFlags) apply(opts *pipeline.Options) {
	changed := f.flags.Changed
	if changed("type") {
		opts.VizType = f.vizType
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("min-scale") {
		opts.MinScale = f.minScale
	}
	if changed("max-scale") {
		opts.MaxScale = f.maxScale
	}
	if changed("select") {
		opts.Selected = f.selected
	}
	if changed("shorten") {
		opts.Shorten = f.shorten
	}
}

// renderFlags holds the render command's own flags.
type renderFlags struct {
	layoutFlags
	output      string
	formats     string
	interactive bool
	detailed    bool
	converter   string
	scale       float64
	quality     int
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a dependency tree to SVG, PDF, PNG, JPEG, JSON, DOT or LaTeX",
		Long: `Render a dependency tree.

The input is sentence JSON, or CoNLL-U when the file ends in .conllu or
.conll; "-" reads JSON from stdin. Every requested format is written next
to the output base path, which defaults to "visualisation".

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Options()
			f.apply(&opts)
			if f.formats != "" {
				opts.Formats = pipeline.ParseFormats(f.formats)
			}
			changed := cmd.Flags().Changed
			if changed("interactive") {
				opts.Interactive = f.interactive
			}
			if changed("detailed") {
				opts.Detailed = f.detailed
			}
			if changed("converter") {
				opts.Converter = f.converter
			}
			if changed("scale") {
				opts.Scale = f.scale
			}
			if changed("quality") {
				opts.JPEGQuality = f.quality
			}
			opts.Refresh = f.refresh
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, f.output, f.noCache)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `output file (single format), base path (multiple), or "-" for stdout`)
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, latex, dot, pdf, png, jpeg (comma-separated)")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "embed the hover and click script in the SVG")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show lemma and POS in node-link diagrams")
	cmd.Flags().StringVar(&f.converter, "converter", pipeline.DefaultConverter, "image converter: rsvg, chrome")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultPNGScale, "raster scale factor for png and jpeg")
	cmd.Flags().IntVar(&f.quality, "quality", 0, "JPEG quality (1-100, 0 for the encoder default)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts and render again")

	registerCompletions(cmd)
	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	in, err := sentence.ImportFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printStats(result.Stats.TokenCount, result.Stats.LinkCount, result.CacheInfo.RenderHit)
	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
	}); err != nil {
		return err
	}
	prog.done("rendered", "input", input, "formats", strings.Join(opts.Formats, ","))
	return nil
}

// artifactWriteParams groups the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string
	stdout    io.Writer
}

// writeArtifacts writes each artifact in request order. A single format goes
// to output verbatim ("-" is stdout); several formats share output as base
// path. Formats without an artifact, such as LaTeX for a sentence without
// links, are reported and skipped.
func writeArtifacts(p artifactWriteParams) error {
	if p.stdout == nil {
		p.stdout = os.Stdout
	}
	single := len(p.formats) == 1
	if p.output == "-" && !single {
		return fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
	}

	base := basePath(p.output)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			printWarning("No %s output for this input", format)
			continue
		}

		if p.output == "-" {
			_, err := p.stdout.Write(data)
			return err
		}

		path := base + pipeline.Extensions[format]
		if single && p.output != "" && filepath.Ext(p.output) != "" {
			path = p.output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the output base path. An empty output uses the default
// export name; a known format extension is stripped.
func basePath(output string) string {
	if output == "" {
		return render.DefaultBaseName
	}
	ext := filepath.Ext(output)
	if format := strings.TrimPrefix(ext, "."); pipeline.ValidFormats[format] || format == "tex" || format == "jpg" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
