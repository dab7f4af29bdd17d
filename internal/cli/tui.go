package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ldraw/pkg/ldraw/section"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// maxHexBytes caps the payload shown in the detail pane.
const maxHexBytes = 256

// =============================================================================
// SectionBrowser - Interactive binary section tree
// =============================================================================

// sectionRow is one section in depth-first order. parent is the index of
// the enclosing row, or -1.
type sectionRow struct {
	sec    section.Section
	depth  int
	parent int
}

// SectionBrowser is the bubbletea model behind `inspect -i`. Containers
// start collapsed below the top level.
type SectionBrowser struct {
	Title    string
	rows     []sectionRow
	expanded map[int]bool
	visible  []int
	Cursor   int
	Offset   int
	Height   int
	ShowHex  bool
}

// NewSectionBrowser flattens secs into a browsable list.
func NewSectionBrowser(title string, secs []section.Section) SectionBrowser {
	m := SectionBrowser{Title: title, expanded: map[int]bool{}, Height: 15}
	var add func(secs []section.Section, depth, parent int)
	add = func(secs []section.Section, depth, parent int) {
		for _, s := range secs {
			idx := len(m.rows)
			m.rows = append(m.rows, sectionRow{sec: s, depth: depth, parent: parent})
			add(s.Children, depth+1, idx)
		}
	}
	add(secs, 0, -1)
	m.refresh()
	return m
}

// Selected returns the section under the cursor.
func (m SectionBrowser) Selected() (section.Section, bool) {
	if len(m.visible) == 0 {
		return section.Section{}, false
	}
	return m.rows[m.visible[m.Cursor]].sec, true
}

// refresh recomputes the visible rows: a row shows when every ancestor is
// expanded.
func (m *SectionBrowser) refresh() {
	m.visible = make([]int, 0, len(m.rows))
	for i, r := range m.rows {
		shown := true
		for p := r.parent; p >= 0; p = m.rows[p].parent {
			if !m.expanded[p] {
				shown = false
				break
			}
		}
		if shown {
			m.visible = append(m.visible, i)
		}
	}
	if m.Cursor >= len(m.visible) {
		m.Cursor = max(len(m.visible)-1, 0)
	}
	m.scroll()
}

func (m *SectionBrowser) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m SectionBrowser) Init() tea.Cmd {
	return nil
}

func (m SectionBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if len(m.visible) == 0 {
			if s := msg.String(); s == "q" || s == "ctrl+c" || s == "esc" {
				return m, tea.Quit
			}
			return m, nil
		}
		cur := m.visible[m.Cursor]
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
			}
		case "enter", " ", "right", "l":
			if len(m.rows[cur].sec.Children) > 0 {
				m.expanded[cur] = !m.expanded[cur] || msg.String() == "right" || msg.String() == "l"
				m.refresh()
			}
		case "left", "h":
			if m.expanded[cur] {
				m.expanded[cur] = false
				m.refresh()
			} else if p := m.rows[cur].parent; p >= 0 {
				for i, v := range m.visible {
					if v == p {
						m.Cursor = i
					}
				}
			}
		case "x":
			m.ShowHex = !m.ShowHex
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
		m.scroll()
	}
	return m, nil
}

func (m SectionBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  ← collapse  x hex  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no sections"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	for i := m.Offset; i < end; i++ {
		idx := m.visible[i]
		r := m.rows[idx]

		marker := "  "
		if len(r.sec.Children) > 0 {
			marker = "▸ "
			if m.expanded[idx] {
				marker = "▾ "
			}
		}
		line := fmt.Sprintf("%s%s%-14s %s", indent(r.depth), marker, r.sec.Keyword.Token(),
			listDimStyle.Render(fmt.Sprintf("@%d +%d", r.sec.Offset, len(r.sec.Payload))))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(m.detail()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))
	return b.String()
}

// detail describes the selected section.
func (m SectionBrowser) detail() string {
	s, _ := m.Selected()
	lines := []string{
		StyleHighlight.Render(s.Keyword.Token()),
		fmt.Sprintf("tag     0x%08x", s.Keyword.Tag()),
		fmt.Sprintf("offset  %d", s.Offset),
		fmt.Sprintf("payload %d bytes", len(s.Payload)),
		"value   " + s.Describe(),
	}
	if m.ShowHex && len(s.Payload) > 0 {
		p := s.Payload
		if len(p) > maxHexBytes {
			p = p[:maxHexBytes]
		}
		lines = append(lines, "", strings.TrimRight(hex.Dump(p), "\n"))
	}
	return strings.Join(lines, "\n")
}
