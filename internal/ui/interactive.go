package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/models"
)

// RunInteractive starts the interactive TUI mode: it runs the scan with a
// live view and then opens the duplicate-group browser. The browser is
// read-only; acting on duplicates is left to other tools.
func RunInteractive(s *scanner.Scanner) error {
	m := models.NewAppModel(s)

	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}

	if app, ok := final.(*models.AppModel); ok && app.Err() != nil {
		return app.Err()
	}

	return nil
}
