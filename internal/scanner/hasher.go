package scanner

import (
	"context"
	"sync"
)

// hashed is a set of files sharing one digest at some stage
type hashed struct {
	digest Digest
	files  []FileDescriptor
}

type hashJob struct {
	desc  FileDescriptor
	group int
}

// hashStage hashes every member of every input group across the bounded
// worker pool, reading at most limit bytes per file (limit <= 0 reads the
// whole file), then regroups members by digest within their input group.
//
// Subgroups with fewer than two members are pruned. A read failure demotes
// just that file with a warning. Groups with members still unprocessed when
// the context is cancelled are discarded entirely so a partial result never
// contains a half-resolved group. The second return value reports whether
// the stage was cut short.
//
// Workers take one file at a time and hold no lock across I/O; the shared
// group state is only touched under a short mutex after the read completes.
func (s *Scanner) hashStage(ctx context.Context, groups [][]FileDescriptor, limit int64) ([]hashed, bool) {
	type groupState struct {
		byDigest map[Digest][]FileDescriptor
		done     int
	}

	states := make([]*groupState, len(groups))
	for i := range states {
		states[i] = &groupState{byDigest: make(map[Digest][]FileDescriptor)}
	}

	jobs := make(chan hashJob)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				digest, n, err := digestFile(job.desc.Path, s.opts.Algorithm, limit)

				mu.Lock()
				state := states[job.group]
				state.done++
				if err != nil {
					mu.Unlock()
					// Deleted or unreadable since enumeration; the rest
					// of the group is still evaluated.
					s.warn(Warning{Path: job.desc.Path, Op: "read", Err: err})
					continue
				}
				state.byDigest[digest] = append(state.byDigest[digest], job.desc)
				mu.Unlock()

				if limit > 0 {
					s.tracker.AddPartialHashed(n)
				} else {
					s.tracker.AddFullHashed(n)
				}

				// Cooperative cancellation between files, never mid-read.
				select {
				case <-ctx.Done():
					return
				default:
				}
			}
		}()
	}

	cancelled := false
feed:
	for gi, group := range groups {
		for _, desc := range group {
			select {
			case jobs <- hashJob{desc: desc, group: gi}:
			case <-ctx.Done():
				cancelled = true
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		cancelled = true
	}

	var out []hashed
	for gi, state := range states {
		if state.done != len(groups[gi]) {
			continue // interrupted group, not fully resolved
		}
		for digest, files := range state.byDigest {
			if len(files) < 2 {
				continue
			}
			out = append(out, hashed{digest: digest, files: files})
		}
	}
	return out, cancelled
}
