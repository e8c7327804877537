package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

// FormatBytes converts bytes to human-readable format
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ParseSize converts a human-readable size to bytes. Accepts plain byte
// counts ("4096") and unit suffixes in either case, with or without a
// trailing "B" ("64k", "1KB", "10M", "2gb").
func ParseSize(size string) (int64, error) {
	s := strings.TrimSpace(strings.ToLower(size))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	numPart := strings.TrimRightFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	unitPart := s[len(numPart):]

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s", size)
	}
	if value < 0 {
		return 0, fmt.Errorf("size cannot be negative: %s", size)
	}

	var multiplier float64
	switch unitPart {
	case "", "b":
		multiplier = B
	case "k", "kb":
		multiplier = KB
	case "m", "mb":
		multiplier = MB
	case "g", "gb":
		multiplier = GB
	case "t", "tb":
		multiplier = TB
	default:
		return 0, fmt.Errorf("unknown size unit %q (use b, k, m, g, t)", unitPart)
	}

	return int64(value * multiplier), nil
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
