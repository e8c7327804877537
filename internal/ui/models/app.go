package models

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewGroups
	ViewDetail
)

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state ViewState

	scanner *scanner.Scanner
	result  *scanner.Result

	scanView   *ScanViewModel
	groupsView *GroupsViewModel
	detailView *DetailViewModel

	width  int
	height int
	err    error
}

// NewAppModel creates a new app model around a configured scanner
func NewAppModel(s *scanner.Scanner) *AppModel {
	return &AppModel{
		state:   ViewScanning,
		scanner: s,
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	// Start scanning immediately
	m.scanView = NewScanViewModel(m.scanner)
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == ViewDetail {
				m.state = ViewGroups
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ScanCompleteMsg:
		m.result = msg.Result
		m.groupsView = NewGroupsViewModel(m.result, m.height)
		m.state = ViewGroups
		// Let the scan view mark itself done before switching away.
		if m.scanView != nil {
			m.scanView, _ = m.scanView.Update(msg)
		}
		return m, nil

	case ScanErrorMsg:
		m.err = msg.Err
		return m, tea.Quit

	case GroupSelectedMsg:
		if m.result != nil && msg.Index < len(m.result.Groups) {
			m.detailView = NewDetailViewModel(&m.result.Groups[msg.Index])
			m.state = ViewDetail
		}
		return m, nil
	}

	// Route remaining messages to the active view.
	var cmd tea.Cmd
	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			m.scanView, cmd = m.scanView.Update(msg)
		}
	case ViewGroups:
		if m.groupsView != nil {
			m.groupsView, cmd = m.groupsView.Update(msg)
		}
	case ViewDetail:
		if m.detailView != nil {
			m.detailView, cmd = m.detailView.Update(msg)
		}
	}
	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("scan failed: %v", m.err)) + "\n"
	}

	switch m.state {
	case ViewGroups:
		if m.groupsView != nil {
			return m.groupsView.View()
		}
	case ViewDetail:
		if m.detailView != nil {
			return m.detailView.View()
		}
	default:
		if m.scanView != nil {
			return m.scanView.View()
		}
	}
	return ""
}

// Err returns the scan error, if any, once the program has exited
func (m *AppModel) Err() error {
	return m.err
}
