package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/schemline/schemline/pkg/pipeline"
	"github.com/schemline/schemline/pkg/placer"
	"github.com/schemline/schemline/pkg/schema"
)

// inspectCommand creates the inspect command, an interactive coordinate
// browser for solved placements.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [document.toml]",
		Short: "Browse solved coordinates interactively (debug tool)",
		Long: `Browse solved coordinates interactively.

The inspect command solves the document and opens a terminal table of node
positions. Use the arrow keys to scroll, 'x' or 'y' to sort by an axis,
'n' to sort by name, and 'q' to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := schema.Load(args[0])
			if err != nil {
				return fmt.Errorf("load document %s: %w", args[0], err)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			pl, err := runner.Solve(cmd.Context(), doc, pipeline.Options{Logger: c.Logger})
			if err != nil {
				return err
			}

			model := newInspectModel(doc, pl)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// InspectModel - Interactive placement browser
// =============================================================================

// inspectRow is one node's solved position.
type inspectRow struct {
	node string
	x, y float64
}

// inspectModel is the bubbletea model for the coordinate browser.
type inspectModel struct {
	title    string
	width    float64
	height   float64
	warnings []string
	rows     []inspectRow
	sortKey  string
	cursor   int
	offset   int
	visible  int
}

func newInspectModel(doc *schema.Document, pl *placer.Placement) inspectModel {
	rows := make([]inspectRow, 0, len(pl.Positions))
	for node, pt := range pl.Positions {
		rows = append(rows, inspectRow{node: node, x: pt.X, y: pt.Y})
	}

	m := inspectModel{
		title:    doc.Title,
		width:    pl.Width,
		height:   pl.Height,
		warnings: pl.Warnings,
		rows:     rows,
		sortKey:  "n",
		visible:  15,
	}
	m.sortRows()
	return m
}

func (m *inspectModel) sortRows() {
	sort.SliceStable(m.rows, func(i, j int) bool {
		switch m.sortKey {
		case "x":
			return m.rows[i].x < m.rows[j].x
		case "y":
			return m.rows[i].y < m.rows[j].y
		default:
			return m.rows[i].node < m.rows[j].node
		}
	})
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.visible {
					m.offset = m.cursor - m.visible + 1
				}
			}
		case "x", "y", "n":
			m.sortKey = msg.String()
			m.sortRows()
			m.cursor = 0
			m.offset = 0
		}
	case tea.WindowSizeMsg:
		m.visible = msg.Height - 8
		if m.visible < 5 {
			m.visible = 5
		}
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	title := m.title
	if title == "" {
		title = "Placement"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%g x %g", m.width, m.height)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  n/x/y sort  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			r.node,
			fmt.Sprintf("%.3g", r.x),
			fmt.Sprintf("%.3g", r.y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "X", "Y").
		Rows(rows...)
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, w := range m.warnings {
		b.WriteString(StyleWarning.Render(iconWarning + " " + w))
		b.WriteString("\n")
	}

	return b.String()
}
