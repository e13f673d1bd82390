package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/knotworks/forcemap/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// inspectCommand creates the inspect command for browsing a layout interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Browse a computed layout interactively",
		Long: `Browse the nodes of a computed layout in the terminal.

Navigate with the arrow keys (or j/k) to see each node's position, group,
and connection count without rendering an image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := graph.ReadLayoutFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			if len(layout.Nodes) == 0 {
				printWarning("Layout has no nodes")
				return nil
			}

			model := newNodeListModel(layout)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// nodeListModel - Interactive node browser
// =============================================================================

// nodeListModel is the bubbletea model for browsing layout nodes.
type nodeListModel struct {
	layout  graph.Layout
	degrees map[string]int
	cursor  int
	height  int
	offset  int
}

func newNodeListModel(l graph.Layout) nodeListModel {
	degrees := make(map[string]int, len(l.Nodes))
	for _, e := range l.Edges {
		degrees[e.Source]++
		degrees[e.Target]++
	}
	return nodeListModel{
		layout:  l,
		degrees: degrees,
		height:  15,
	}
}

func (m nodeListModel) Init() tea.Cmd {
	return nil
}

func (m nodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.cursor < len(m.layout.Nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m nodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Nodes"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%.0f×%.0f · %s · seed %d",
		m.layout.Width, m.layout.Height, m.layout.Engine, m.layout.Seed)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.layout.Nodes) {
		end = len(m.layout.Nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.layout.Nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		group := n.Group
		if group == "" {
			group = "—"
		}

		rows = append(rows, []string{
			cursor,
			n.ID,
			n.Label,
			group,
			fmt.Sprintf("%.1f, %.1f", n.X, n.Y),
			fmt.Sprintf("%d", m.degrees[n.ID]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Group", "Position", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.layout.Nodes))))

	return b.String()
}
