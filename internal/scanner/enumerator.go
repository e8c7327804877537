package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
)

// enumerate walks the tree under the root and streams one FileDescriptor
// per candidate file to out. The walk is sequential; descriptors stream so
// downstream stages never need the full tree in memory. Paths that fail to
// list or stat become warnings, not errors. Symbolic links are never
// followed, which also rules out walk cycles.
func (s *Scanner) enumerate(ctx context.Context, out chan<- FileDescriptor) {
	defer close(out)

	seen := make(map[fileID]struct{})

	root := s.opts.Root
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return filepath.SkipAll
		default:
		}

		if err != nil {
			s.warn(Warning{Path: path, Op: "walk", Err: err})
			return nil
		}

		if d.IsDir() {
			if path != root && s.excluded(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		// Regular files only: symlinks, sockets and devices are not
		// duplicate candidates.
		if !d.Type().IsRegular() {
			return nil
		}

		if s.excluded(path, d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Vanished or unreadable between listing and stat.
			s.warn(Warning{Path: path, Op: "stat", Err: err})
			return nil
		}

		if info.Size() < s.opts.MinFileSize {
			return nil
		}

		// Hard links to an already-seen inode are the same stored bytes;
		// counting them would inflate reclaimable sizes.
		if id, ok := statID(info); ok {
			if _, dup := seen[id]; dup {
				return nil
			}
			seen[id] = struct{}{}
		}

		desc := FileDescriptor{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		s.tracker.AddFileFound()

		select {
		case out <- desc:
		case <-ctx.Done():
			return filepath.SkipAll
		}
		return nil
	})
}

// excluded reports whether a path matches any configured exclusion glob.
// Patterns are matched against both the base name and the path relative to
// the scan root, so "*.log" and "build/*" both behave as expected.
func (s *Scanner) excluded(path, base string) bool {
	rel, err := filepath.Rel(s.opts.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.opts.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
