//go:build !unix

package scanner

import "io/fs"

// fileID identifies a file's underlying storage on platforms that expose
// inode numbers. This platform does not, so every path counts as distinct.
type fileID struct {
	dev uint64
	ino uint64
}

func statID(info fs.FileInfo) (fileID, bool) {
	return fileID{}, false
}
