// Package scanner implements the duplicate-file detection engine: a
// streaming directory walk, size bucketing, and staged partial/full
// content hashing over a bounded worker pool.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/fenilsonani/dupescan/internal/progress"
)

const (
	// DefaultPrefixSize is the number of leading bytes the cheap first
	// hashing pass reads. Larger prefixes cut full reads on trees full of
	// near-duplicates; smaller ones cut I/O on trees that are mostly
	// unique. 8 KiB is a reasonable middle and stays configurable.
	DefaultPrefixSize = 8 * 1024

	// MaxWorkers caps the hashing pool so concurrent reads do not
	// saturate the disk
	MaxWorkers = 16
)

// Options configures a single scanner instance
type Options struct {
	Root            string          // directory tree to scan
	ExcludePatterns []string        // glob patterns, matched per enumerator rules
	MinFileSize     int64           // files below this size are ignored; 0 = no filter
	Workers         int             // hashing pool size; 0 = host parallelism
	PrefixSize      int64           // partial-hash prefix bytes; 0 = DefaultPrefixSize
	Algorithm       DigestAlgorithm // content hash; empty = sha256
}

// Scanner finds sets of byte-identical files under a root directory
type Scanner struct {
	opts    Options
	tracker *progress.Tracker

	mu       sync.Mutex
	warnings []Warning
}

// New validates the options and creates a Scanner. All configuration
// errors surface here, before any filesystem I/O beyond the root stat.
func New(opts Options) (*Scanner, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", opts.Root)
	}

	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	opts.Root = abs

	for _, pattern := range opts.ExcludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	if opts.MinFileSize < 0 {
		return nil, fmt.Errorf("minimum file size cannot be negative")
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("worker count cannot be negative")
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers > MaxWorkers {
		opts.Workers = MaxWorkers
	}

	if opts.PrefixSize < 0 {
		return nil, fmt.Errorf("prefix size cannot be negative")
	}
	if opts.PrefixSize == 0 {
		opts.PrefixSize = DefaultPrefixSize
	}

	if opts.Algorithm == "" {
		opts.Algorithm = DigestSHA256
	} else if _, err := ParseDigestAlgorithm(string(opts.Algorithm)); err != nil {
		return nil, err
	}

	return &Scanner{
		opts:    opts,
		tracker: progress.NewTracker(),
	}, nil
}

// Tracker returns the scanner's progress tracker
func (s *Scanner) Tracker() *progress.Tracker {
	return s.tracker
}

// SetTracker replaces the progress tracker, for callers that share one
// tracker across components
func (s *Scanner) SetTracker(t *progress.Tracker) {
	s.tracker = t
}

// Scan runs the full pipeline: enumerate, bucket by size, partial hash,
// full hash, group. Per-file problems are collected as warnings and never
// abort the scan. Cancelling the context stops the scan between files and
// returns the groups confirmed so far with Result.Partial set; cancellation
// is not an error.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()

	s.tracker.SetPhase(progress.PhaseEnumerating)
	descs := make(chan FileDescriptor, 256)
	go s.enumerate(ctx, descs)

	buckets := bucketBySize(descs)
	var candidates, candidateBytes int64
	for _, bucket := range buckets {
		candidates += int64(len(bucket))
		for _, desc := range bucket {
			candidateBytes += desc.Size
		}
	}
	s.tracker.AddCandidates(candidates)
	// Worst case every candidate needs a full read on top of its prefix.
	s.tracker.SetBytesExpected(candidateBytes)

	cancelled := ctx.Err() != nil

	var confirmed []hashed
	if !cancelled {
		s.tracker.SetPhase(progress.PhasePartialHash)
		survivors, c := s.hashStage(ctx, buckets, s.opts.PrefixSize)
		cancelled = c

		if !cancelled {
			s.tracker.SetPhase(progress.PhaseFullHash)
			subgroups := make([][]FileDescriptor, len(survivors))
			for i := range survivors {
				subgroups[i] = survivors[i].files
			}
			confirmed, c = s.hashStage(ctx, subgroups, 0)
			cancelled = c
		}
	}

	groups := make([]DuplicateGroup, 0, len(confirmed))
	for _, h := range confirmed {
		group := DuplicateGroup{
			Digest: h.digest,
			Size:   h.files[0].Size,
			Paths:  make([]string, len(h.files)),
		}
		for i := range h.files {
			group.Paths[i] = h.files[i].Path
		}
		sort.Strings(group.Paths)
		groups = append(groups, group)
	}

	// Deterministic output order regardless of worker scheduling: most
	// reclaimable bytes first, digest as tiebreak.
	sort.Slice(groups, func(i, j int) bool {
		ri, rj := groups[i].Reclaimable(), groups[j].Reclaimable()
		if ri != rj {
			return ri > rj
		}
		return groups[i].Digest.Hex() < groups[j].Digest.Hex()
	})

	if cancelled {
		s.tracker.SetPhase(progress.PhaseCancelled)
	} else {
		s.tracker.SetPhase(progress.PhaseComplete)
	}

	snap := s.tracker.Snapshot()

	s.mu.Lock()
	warnings := make([]Warning, len(s.warnings))
	copy(warnings, s.warnings)
	s.mu.Unlock()

	return &Result{
		Root:         s.opts.Root,
		Groups:       groups,
		FilesScanned: snap.FilesFound,
		BytesHashed:  snap.BytesHashed,
		Warnings:     warnings,
		Partial:      cancelled,
		Duration:     time.Since(start),
	}, nil
}

// warn records a per-path warning; safe for concurrent use by workers
func (s *Scanner) warn(w Warning) {
	s.mu.Lock()
	s.warnings = append(s.warnings, w)
	s.mu.Unlock()
	s.tracker.AddWarning()
}
