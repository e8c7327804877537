package scanner

import (
	"encoding/hex"
	"fmt"
	"time"
)

// FileDescriptor identifies a regular file found during enumeration.
// It is created once by the enumerator and never mutated afterwards.
type FileDescriptor struct {
	Path    string    // absolute path
	Size    int64     // byte size at enumeration time
	ModTime time.Time // modification time at enumeration time
}

// DigestSize is the width of every digest the scanner produces. Both
// supported algorithms emit 256-bit values.
const DigestSize = 32

// Digest is a fixed-width content hash. Equality is exact byte comparison.
type Digest [DigestSize]byte

// Hex returns the lowercase hex encoding of the digest
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// DuplicateGroup is a set of files proven byte-identical in content.
// Groups always have at least two members, and members are sorted by path.
type DuplicateGroup struct {
	Digest Digest   `json:"-" yaml:"-"`
	Size   int64    `json:"size" yaml:"size"`
	Paths  []string `json:"paths" yaml:"paths"`
}

// Count returns the number of files in the group
func (g *DuplicateGroup) Count() int {
	return len(g.Paths)
}

// Reclaimable returns the bytes freed by keeping a single member
func (g *DuplicateGroup) Reclaimable() int64 {
	if len(g.Paths) < 2 {
		return 0
	}
	return int64(len(g.Paths)-1) * g.Size
}

// Warning records a per-path problem that did not abort the scan
type Warning struct {
	Path string // the path the warning is attributable to
	Op   string // "walk", "stat" or "read"
	Err  error
}

// String formats the warning for display
func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %v", w.Op, w.Path, w.Err)
}

// Result is the outcome of a single scan invocation
type Result struct {
	Root         string
	Groups       []DuplicateGroup
	FilesScanned int64 // files that passed enumeration filters
	BytesHashed  int64 // total bytes read across both hash phases
	Warnings     []Warning
	Partial      bool // true when the scan was cancelled before finishing
	Duration     time.Duration
}

// TotalReclaimable sums reclaimable bytes across all groups
func (r *Result) TotalReclaimable() int64 {
	var total int64
	for i := range r.Groups {
		total += r.Groups[i].Reclaimable()
	}
	return total
}

// DuplicateFiles counts the group members beyond the first of each group
func (r *Result) DuplicateFiles() int {
	var n int
	for i := range r.Groups {
		if c := r.Groups[i].Count(); c > 1 {
			n += c - 1
		}
	}
	return n
}
