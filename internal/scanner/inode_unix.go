//go:build unix

package scanner

import (
	"io/fs"
	"syscall"
)

// fileID identifies a file's underlying storage. Paths sharing an ID are
// hard links to the same inode and hold no separately reclaimable bytes.
type fileID struct {
	dev uint64
	ino uint64
}

// statID extracts the device/inode pair from file info when the platform
// exposes one
func statID(info fs.FileInfo) (fileID, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileID{}, false
	}
	return fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
