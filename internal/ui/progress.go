package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"golang.org/x/term"
)

// LiveProgress renders a single updating status line while a scan runs
type LiveProgress struct {
	mu         sync.Mutex
	termWidth  int
	enabled    bool
	lastUpdate time.Time
	rendered   bool
}

// NewLiveProgress creates a new live progress display. It disables itself
// when stdout is not a terminal.
func NewLiveProgress() *LiveProgress {
	width := 80
	enabled := term.IsTerminal(int(os.Stdout.Fd()))
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	return &LiveProgress{
		termWidth: width,
		enabled:   enabled,
	}
}

// Update redraws the status line from a progress snapshot
func (lp *LiveProgress) Update(snap progress.Snapshot) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Throttle updates to avoid flickering (max 10 updates per second)
	now := time.Now()
	if now.Sub(lp.lastUpdate) < 100*time.Millisecond {
		return
	}
	lp.lastUpdate = now

	lp.render(snap)
}

// Finish clears the status line so the report starts on a clean row
func (lp *LiveProgress) Finish() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled || !lp.rendered {
		return
	}
	fmt.Print("\r\033[K")
}

func (lp *LiveProgress) render(snap progress.Snapshot) {
	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinIdx := int(time.Now().UnixMilli()/100) % len(spinner)

	var detail string
	switch snap.Phase {
	case progress.PhaseEnumerating:
		detail = fmt.Sprintf("found %d files", snap.FilesFound)
	case progress.PhasePartialHash:
		detail = fmt.Sprintf("prefix-hashed %d/%d candidates", snap.PartialHashed, snap.Candidates)
	case progress.PhaseFullHash:
		detail = fmt.Sprintf("verified %d files", snap.FullHashed)
	default:
		detail = fmt.Sprintf("%d files", snap.FilesFound)
	}

	read := utils.FormatBytes(snap.BytesHashed)
	if snap.BytesExpected > 0 {
		read += " of ≤" + utils.FormatBytes(snap.BytesExpected)
	}

	line := fmt.Sprintf("%s %s: %s | %s read | %s",
		spinner[spinIdx],
		snap.Phase,
		detail,
		read,
		utils.FormatDuration(snap.Elapsed))

	fmt.Printf("\r\033[K%s", truncate(line, lp.termWidth-2))
	lp.rendered = true
}

// truncate shortens a string to fit the given width
func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

