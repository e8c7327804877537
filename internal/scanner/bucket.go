package scanner

import "sort"

// bucketBySize drains the descriptor stream into size buckets and prunes
// the singletons. A file with a unique size cannot have a duplicate, so
// pruning here avoids ever opening most files. Surviving buckets come back
// ordered by descending size so the scans with the biggest potential
// savings are hashed first.
func bucketBySize(in <-chan FileDescriptor) [][]FileDescriptor {
	bySize := make(map[int64][]FileDescriptor)
	for desc := range in {
		bySize[desc.Size] = append(bySize[desc.Size], desc)
	}

	buckets := make([][]FileDescriptor, 0, len(bySize))
	for _, bucket := range bySize {
		if len(bucket) < 2 {
			continue
		}
		buckets = append(buckets, bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i][0].Size > buckets[j][0].Size
	})
	return buckets
}
