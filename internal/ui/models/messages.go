package models

import (
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
)

// ScanProgressMsg carries a progress snapshot into the TUI event loop
type ScanProgressMsg progress.Snapshot

// ScanCompleteMsg is sent when the scan finishes (possibly partial)
type ScanCompleteMsg struct {
	Result *scanner.Result
}

// ScanErrorMsg is sent when the scan could not run at all
type ScanErrorMsg struct {
	Err error
}

// GroupSelectedMsg is sent when the user opens a duplicate group
type GroupSelectedMsg struct {
	Index int
}
