package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/pipeline"
	"github.com/matzehuels/depviz/pkg/render/dependency"
	"github.com/matzehuels/depviz/pkg/sentence"
)

// List styles
var (
	listCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive token selection
// =============================================================================

// InspectModel is the bubbletea model of the inspect command. It moves a
// cursor over the tokens and toggles their selection; the link table shows
// what the selection highlights.
type InspectModel struct {
	In        *sentence.Input
	Selection *dependency.Selection
	Cursor    int

	// Confirmed is set when the user accepts the selection with enter.
	Confirmed bool
}

// NewInspectModel creates a model with the given tokens preselected.
func NewInspectModel(in *sentence.Input, selected ...int) InspectModel {
	return InspectModel{In: in, Selection: dependency.NewSelection(selected...)}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := m.In.TokenCount() - 1

	switch key.Type {
	case tea.KeySpace:
		m.toggle()
		return m, nil
	case tea.KeyEnter:
		m.Confirmed = true
		return m, tea.Quit
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "right", "l":
		if m.Cursor < last {
			m.Cursor++
		}
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = max(last, 0)
	case " ", "x":
		m.toggle()
	case "c":
		m.Selection.Clear()
	}
	return m, nil
}

func (m InspectModel) toggle() {
	if m.In.TokenCount() > 0 {
		m.Selection.ToggleToken(m.Cursor)
	}
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Sentence"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ move  space toggle  c clear  ⏎ accept  q quit"))
	b.WriteString("\n\n")

	hl := m.Selection.Resolve(m.In.Links)
	b.WriteString(m.tokenTable(hl))
	b.WriteString("\n")
	b.WriteString(m.linkList(hl))
	b.WriteString("\n")

	selected := m.Selection.Tokens()
	status := "nothing selected"
	if len(selected) > 0 {
		status = "selected " + joinInts(selected)
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %s", m.Cursor+1, m.In.TokenCount(), status)))
	return b.String()
}

// tokenTable renders one column per token with its text, lemma and POS.
func (m InspectModel) tokenTable(hl dependency.Highlight) string {
	n := m.In.TokenCount()
	headers := make([]string, n)
	rows := [][]string{make([]string, n), make([]string, n), make([]string, n)}
	for i := range n {
		cell := m.In.Cell(i)
		headers[i] = strconv.Itoa(i)
		rows[0][i] = cell.Text
		rows[1][i] = orFiller(cell.HasLemma, cell.Lemma)
		rows[2][i] = orFiller(cell.HasPOS, cell.POS)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				if col == m.Cursor {
					return headerStyle.Foreground(colorCyan)
				}
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case hl.Tokens[col]:
				base = base.Inherit(StyleSelected)
			case m.In.IsTokenMatched(col):
				base = base.Inherit(StyleMatch)
			case row > 0:
				base = base.Foreground(colorGray)
			}
			if col == m.Cursor {
				base = base.Underline(true)
			}
			return base
		})
	return t.Render()
}

// linkList renders one line per link, selected links first.
func (m InspectModel) linkList(hl dependency.Highlight) string {
	if m.In.Links == nil {
		return listDimStyle.Render("  no links") + "\n"
	}
	links := slices.Clone(m.In.Links)
	slices.SortStableFunc(links, func(a, b sentence.Link) int {
		switch {
		case hl.Links[a.ID] == hl.Links[b.ID]:
			return 0
		case hl.Links[a.ID]:
			return -1
		default:
			return 1
		}
	})

	var b strings.Builder
	for _, l := range links {
		from, to := m.In.Cell(l.Source).Text, m.In.Cell(l.Target).Text
		line := fmt.Sprintf("%-10s %s %s %s", l.Dependency, from, iconArrow, to)
		if l.Source == l.Target {
			line = fmt.Sprintf("%-10s %s", l.Dependency, to)
		}
		switch {
		case hl.Links[l.ID]:
			b.WriteString(listCursorStyle.Render("▸ ") + StyleSelected.Render(line))
		case m.In.IsMatched(l, l.Source == l.Target):
			b.WriteString("  " + StyleMatch.Render(line))
		default:
			b.WriteString("  " + listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orFiller(present bool, v string) string {
	if !present {
		return sentence.Filler
	}
	return v
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// =============================================================================
// Command
// =============================================================================

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		output   string
		selected []int
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse a sentence and choose tokens to highlight",
		Long: `Browse a sentence in the terminal and choose tokens to highlight.

Selecting a token highlights the links it heads and their dependents, the
same way clicking a token does in an interactive SVG. Press enter to accept:
with --output the highlighted diagram is rendered to that file, otherwise
the matching render command is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := sentence.ImportFile(args[0])
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}

			p := tea.NewProgram(NewInspectModel(in, selected...), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			m := final.(InspectModel)
			if !m.Confirmed {
				return nil
			}
			return c.finishInspect(cmd.Context(), args[0], in, m.Selection.Tokens(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "render the highlighted diagram to this file on accept")
	cmd.Flags().IntSliceVarP(&selected, "select", "s", nil, "token positions selected initially")
	registerCompletions(cmd)
	return cmd
}

func (c *CLI) finishInspect(ctx context.Context, input string, in *sentence.Input, selected []int, output string) error {
	if output == "" {
		cmdline := "depviz render " + input
		if len(selected) > 0 {
			cmdline += " --select " + joinInts(selected)
		}
		printNextStep("Render this selection", cmdline)
		return nil
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.Config.Options()
	opts.Selected = selected
	opts.Formats = []string{formatForPath(output)}
	opts.Logger = c.Logger
	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}
	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
	})
}

// formatForPath picks the output format from a file extension, defaulting
// to SVG.
func formatForPath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".tex") {
		return pipeline.FormatLaTeX
	}
	formats := pipeline.ParseFormats(strings.TrimPrefix(ext, "."))
	if len(formats) == 1 && pipeline.ValidFormats[formats[0]] {
		return formats[0]
	}
	return pipeline.FormatSVG
}
