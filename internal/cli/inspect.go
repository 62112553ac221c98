package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotlayout/pkg/dot"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	tabActive    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactive  = lipgloss.NewStyle().Foreground(colorGray)
)

// inspectCommand creates the inspect command, an interactive browser over
// the nodes and edges of a laid-out graph.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect <file|->",
		Short: "Browse the nodes and edges of a laid-out graph",
		Long: `Lay out a DOT file and browse its nodes and edges in the terminal.

Keys: tab switches between nodes and edges, arrows or j/k move, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.parseInput(cmd.Context(), cmd.InOrStdin(), args[0], flags)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newInspectModel(displayName(args[0]), res.Graph),
				tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// inspectModel - Interactive node/edge browser
// =============================================================================

type inspectTab int

const (
	tabNodes inspectTab = iota
	tabEdges
)

// inspectModel is the bubbletea model for the inspect command.
type inspectModel struct {
	title  string
	bounds string
	nodes  [][]string
	edges  [][]string
	tab    inspectTab
	cursor int
	offset int
	height int
}

func newInspectModel(title string, g *dot.Graph) inspectModel {
	m := inspectModel{title: title, height: 15}
	if bb, ok := g.BoundingBox(); ok {
		m.bounds = fmt.Sprintf("%g×%g", bb.Width(), bb.Height())
	}
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		m.nodes = append(m.nodes, []string{id, n.Label(), formatPoint(n.Pos()), formatSize(n.Attrs)})
	}
	for _, e := range g.Edges {
		arrow := "-"
		if p, ok := e.EndArrow(); ok {
			arrow = formatPoint(p)
		}
		m.edges = append(m.edges, []string{e.Start, e.Stop, plural(len(e.Pos()), "point"), arrow})
	}
	return m
}

func (m inspectModel) rows() [][]string {
	if m.tab == tabEdges {
		return m.edges
	}
	return m.nodes
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
		case "tab":
			m.tab = 1 - m.tab
			m.cursor, m.offset = 0, 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows())-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	if m.bounds != "" {
		b.WriteString(" ")
		b.WriteString(listDimStyle.Render(m.bounds))
	}
	b.WriteString("  ")
	b.WriteString(m.tabLabel(tabNodes, plural(len(m.nodes), "node")))
	b.WriteString("  ")
	b.WriteString(m.tabLabel(tabEdges, plural(len(m.edges), "edge")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab switch  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	all := m.rows()
	if len(all) == 0 {
		b.WriteString(listDimStyle.Render("  (none)"))
		return b.String()
	}
	end := min(m.offset+m.height, len(all))
	rows := all[m.offset:end]

	headers := []string{"ID", "Label", "Pos", "Size"}
	if m.tab == tabEdges {
		headers = []string{"Start", "Stop", "Spline", "Arrow"}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(all))))

	return b.String()
}

func (m inspectModel) tabLabel(tab inspectTab, label string) string {
	if m.tab == tab {
		return tabActive.Render(label)
	}
	return tabInactive.Render(label)
}

// =============================================================================
// Helpers
// =============================================================================

func formatPoint(p dot.Point) string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

func formatSize(a dot.Attrs) string {
	w, okW := a.Number(dot.AttrWidth)
	h, okH := a.Number(dot.AttrHeight)
	if !okW || !okH {
		return "-"
	}
	return fmt.Sprintf("%g×%g", w, h)
}
