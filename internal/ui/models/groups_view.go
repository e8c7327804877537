package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// GroupsViewModel lists duplicate groups, most reclaimable first
type GroupsViewModel struct {
	result *scanner.Result
	cursor int
	offset int
	height int
}

// NewGroupsViewModel creates a new groups view model
func NewGroupsViewModel(result *scanner.Result, height int) *GroupsViewModel {
	if height <= 0 {
		height = 24
	}
	return &GroupsViewModel{
		result: result,
		height: height,
	}
}

// visibleRows returns how many group rows fit on screen
func (m *GroupsViewModel) visibleRows() int {
	rows := m.height - 8 // title, summary, help
	if rows < 3 {
		rows = 3
	}
	return rows
}

// Update handles messages
func (m *GroupsViewModel) Update(msg tea.Msg) (*GroupsViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.result.Groups)-1 {
				m.cursor++
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.result.Groups) - 1
		case "enter":
			if len(m.result.Groups) > 0 {
				index := m.cursor
				return m, func() tea.Msg { return GroupSelectedMsg{Index: index} }
			}
		}

		// Keep the cursor on screen.
		rows := m.visibleRows()
		if m.cursor < m.offset {
			m.offset = m.cursor
		}
		if m.cursor >= m.offset+rows {
			m.offset = m.cursor - rows + 1
		}
	}

	return m, nil
}

// View renders the groups view
func (m *GroupsViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📄 Duplicate Groups"))
	b.WriteString("\n")

	if m.result.Partial {
		b.WriteString(styles.ErrorStyle.Render("partial result: scan was cancelled"))
		b.WriteString("\n")
	}

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(
		"%d groups, %s reclaimable across %d duplicate files",
		len(m.result.Groups),
		utils.FormatBytes(m.result.TotalReclaimable()),
		m.result.DuplicateFiles())))
	b.WriteString("\n\n")

	if len(m.result.Groups) == 0 {
		b.WriteString(styles.SuccessStyle.Render("No duplicate files found."))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("q: quit"))
		return b.String()
	}

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(m.result.Groups) {
		end = len(m.result.Groups)
	}

	for i := m.offset; i < end; i++ {
		group := &m.result.Groups[i]
		line := fmt.Sprintf("%d files x %s  (%s reclaimable)  %s",
			group.Count(),
			utils.FormatBytes(group.Size),
			utils.FormatBytes(group.Reclaimable()),
			truncatePath(group.Paths[0], 48))

		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if end < len(m.result.Groups) {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  … %d more", len(m.result.Groups)-end)))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("↑/↓: navigate • enter: open group • q: quit"))
	return b.String()
}

// truncatePath shortens a path, keeping the tail which is usually the
// interesting part
func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "…" + path[len(path)-max+1:]
}
