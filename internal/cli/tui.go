package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/waypoint/pkg/pipeline"
	"github.com/matzehuels/waypoint/pkg/search"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	onPathStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	cursorRowStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// =============================================================================
// TraceModel - Interactive visit trace browser
// =============================================================================

// TraceModel is the bubbletea model for browsing the visit trace of a
// search, one row per visited node.
type TraceModel struct {
	Outcome *pipeline.Outcome
	Entries []search.TraceEntry
	Cursor  int
	Height  int
	Offset  int

	onPath map[string]bool
}

// newTraceModel creates a trace browser for out.
func newTraceModel(out *pipeline.Outcome) TraceModel {
	onPath := make(map[string]bool, len(out.Path))
	for _, n := range out.Path {
		onPath[n] = true
	}
	return TraceModel{
		Outcome: out,
		Entries: out.Trace,
		Height:  15,
		onPath:  onPath,
	}
}

func (m TraceModel) Init() tea.Cmd {
	return nil
}

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown", " ":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Entries) - 1)
		case "n":
			m.moveTo(m.attemptStart(m.Cursor, 1))
		case "p":
			m.moveTo(m.attemptStart(m.Cursor, -1))
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped to the entries, and scrolls the
// window to keep it visible.
func (m *TraceModel) moveTo(i int) {
	if i >= len(m.Entries) {
		i = len(m.Entries) - 1
	}
	if i < 0 {
		i = 0
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// attemptStart returns the index of the first entry of the attempt after
// (dir > 0) or before (dir < 0) the one containing i. It stays at the
// current attempt's start when there is none.
func (m TraceModel) attemptStart(i, dir int) int {
	if len(m.Entries) == 0 {
		return 0
	}
	bound := m.Entries[i].Bound
	start := i
	for start > 0 && m.Entries[start-1].Bound == bound {
		start--
	}
	if dir > 0 {
		for j := i; j < len(m.Entries); j++ {
			if m.Entries[j].Bound != bound {
				return j
			}
		}
		return start
	}
	if start == 0 {
		return 0
	}
	prev := m.Entries[start-1].Bound
	for start > 0 && m.Entries[start-1].Bound == prev {
		start--
	}
	return start
}

func (m TraceModel) View() string {
	var b strings.Builder

	out := m.Outcome
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Visit trace: %s to %s", out.Start, out.Goal)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  n/p next/previous attempt  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  nothing was visited"))
		b.WriteString("\n")
	} else {
		end := m.Offset + m.Height
		if end > len(m.Entries) {
			end = len(m.Entries)
		}
		rows := make([][]string, 0, end-m.Offset)
		for i := m.Offset; i < end; i++ {
			e := m.Entries[i]
			cursor := "  "
			if i == m.Cursor {
				cursor = "▸ "
			}
			rows = append(rows, []string{
				cursor,
				fmt.Sprint(i + 1),
				fmt.Sprint(e.Bound),
				fmt.Sprint(e.Depth),
				strings.Repeat("  ", e.Depth) + e.Node,
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("", "#", "Bound", "Depth", "Node").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader
				}
				idx := m.Offset + row
				if idx >= len(m.Entries) {
					return lipgloss.NewStyle()
				}
				switch {
				case idx == m.Cursor:
					return cursorRowStyle
				case col == 4 && m.onPath[m.Entries[idx].Node] && m.Entries[idx].Bound == out.Bound:
					return onPathStyle
				case col == 2 || col == 3:
					return listDimStyle
				}
				return lipgloss.NewStyle()
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if out.Found {
		b.WriteString(StyleSuccess.Render("Solution: " + out.Path.String()))
	} else {
		b.WriteString(StyleFailure.Render("FAIL"))
		if out.Message != "" {
			b.WriteString(listDimStyle.Render("  " + out.Message))
		}
	}
	b.WriteString("\n")
	return b.String()
}
