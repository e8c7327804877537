package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// DetailViewModel shows the members of one duplicate group
type DetailViewModel struct {
	group  *scanner.DuplicateGroup
	cursor int
}

// NewDetailViewModel creates a new detail view model
func NewDetailViewModel(group *scanner.DuplicateGroup) *DetailViewModel {
	return &DetailViewModel{group: group}
}

// Update handles messages
func (m *DetailViewModel) Update(msg tea.Msg) (*DetailViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.group.Paths)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View renders the detail view
func (m *DetailViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🗂  Duplicate Group"))
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(
		"%d files x %s • %s reclaimable",
		m.group.Count(),
		utils.FormatBytes(m.group.Size),
		utils.FormatBytes(m.group.Reclaimable()))))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("digest: " + m.group.Digest.Hex()))
	b.WriteString("\n\n")

	for i, path := range m.group.Paths {
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("▶ "))
			b.WriteString(styles.FilePathStyle.Render(path))
		} else {
			b.WriteString("  " + path)
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("↑/↓: navigate • esc: back • q: quit"))
	return b.String()
}
