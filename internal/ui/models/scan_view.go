package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	"github.com/fenilsonani/dupescan/pkg/utils"
)

// ScanViewModel shows live progress while the scan runs
type ScanViewModel struct {
	scanner  *scanner.Scanner
	spinner  spinner.Model
	snapshot progress.Snapshot
	updates  <-chan progress.Snapshot
	scanning bool
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(s *scanner.Scanner) *ScanViewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SelectedStyle

	return &ScanViewModel{
		scanner:  s,
		spinner:  sp,
		updates:  s.Tracker().Subscribe(),
		scanning: true,
	}
}

// Init starts the spinner, the scan, and the progress pump
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.performScan,
		m.waitForProgress,
	)
}

// performScan runs the scan and delivers the result as a message
func (m *ScanViewModel) performScan() tea.Msg {
	result, err := m.scanner.Scan(context.Background())
	if err != nil {
		return ScanErrorMsg{Err: err}
	}
	return ScanCompleteMsg{Result: result}
}

// waitForProgress pumps one snapshot from the tracker into the event loop
func (m *ScanViewModel) waitForProgress() tea.Msg {
	snap, ok := <-m.updates
	if !ok {
		return nil
	}
	return ScanProgressMsg(snap)
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		m.snapshot = progress.Snapshot(msg)
		return m, m.waitForProgress

	case ScanCompleteMsg:
		m.scanning = false
		return m, nil
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔍 Scanning for Duplicates"))
	b.WriteString("\n\n")

	if m.scanning {
		b.WriteString(m.spinner.View())
		b.WriteString(fmt.Sprintf(" %s ", m.snapshot.Phase))
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", utils.FormatDuration(m.snapshot.Elapsed))))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("  Files found:      %d\n", m.snapshot.FilesFound))
	b.WriteString(fmt.Sprintf("  Candidates:       %d\n", m.snapshot.Candidates))
	b.WriteString(fmt.Sprintf("  Prefix hashed:    %d\n", m.snapshot.PartialHashed))
	b.WriteString(fmt.Sprintf("  Fully verified:   %d\n", m.snapshot.FullHashed))
	b.WriteString(fmt.Sprintf("  Bytes read:       %s\n", utils.FormatBytes(m.snapshot.BytesHashed)))
	if m.snapshot.Warnings > 0 {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("  Warnings:         %d", m.snapshot.Warnings)))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("q: quit"))

	return b.String()
}
