package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listLeafStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

// newViewCmd creates the view command, an interactive terminal tree browser.
func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a tree interactively in the terminal",
		Long: `Open a Newick tree in an interactive terminal browser. Navigate with the
arrow keys, fold and unfold subtrees with enter or space, and quit with q.
Folded subtrees show their leaf count in place of their children.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTree(args[0])
			if err != nil {
				return err
			}
			model := newTreeViewModel(t, args[0])
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

// viewRow is one visible line of the tree browser: a node plus its
// indentation depth.
type viewRow struct {
	node  *tree.Node
	depth int
}

// treeViewModel is the bubbletea model for the interactive tree browser.
type treeViewModel struct {
	tree   *tree.Tree
	title  string
	rows   []viewRow
	cursor int
	height int
	offset int
}

func newTreeViewModel(t *tree.Tree, title string) treeViewModel {
	m := treeViewModel{tree: t, title: title, height: 20}
	m.rebuild()
	return m
}

// rebuild recomputes the visible rows after a fold or unfold.
func (m *treeViewModel) rebuild() {
	m.rows = m.rows[:0]
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		m.rows = append(m.rows, viewRow{node: n, depth: depth})
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if m.tree.Root != nil {
		walk(m.tree.Root, 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m treeViewModel) Init() tea.Cmd {
	return nil
}

func (m treeViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ":
			n := m.rows[m.cursor].node
			if !n.IsLeaf() {
				n.Collapsed = !n.Collapsed
				m.rebuild()
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m treeViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("clade " + m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold/unfold  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := cursor + strings.Repeat("  ", row.depth) + rowLabel(row.node)

		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case row.node.IsLeaf():
			b.WriteString(listLeafStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	return b.String()
}

// rowLabel formats one node for the browser: name (or a fold marker),
// branch length, and the leaf count for folded subtrees.
func rowLabel(n *tree.Node) string {
	name := n.Name
	switch {
	case n.Collapsed:
		if name == "" {
			name = "[+]"
		}
		return fmt.Sprintf("%s  (%d leaves, folded)", name, n.LeafCount())
	case n.IsLeaf():
		label := fmt.Sprintf("%s  :%.5f", name, n.Dist)
		if n.Outgroup {
			label += "  (outgroup)"
		}
		return label
	default:
		if name == "" {
			name = "•"
		}
		return fmt.Sprintf("%s  :%.5f", name, n.Dist)
	}
}
