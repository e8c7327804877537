package scanner

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// DigestAlgorithm selects the content hash function. The choice only
// affects collision probability, never which files group together, so it
// is fixed at configuration time rather than negotiated at runtime.
type DigestAlgorithm string

const (
	DigestSHA256  DigestAlgorithm = "sha256"
	DigestBLAKE2b DigestAlgorithm = "blake2b"
)

// ParseDigestAlgorithm validates an algorithm name from config or flags
func ParseDigestAlgorithm(name string) (DigestAlgorithm, error) {
	switch DigestAlgorithm(name) {
	case DigestSHA256:
		return DigestSHA256, nil
	case DigestBLAKE2b:
		return DigestBLAKE2b, nil
	default:
		return "", fmt.Errorf("unknown digest algorithm %q (use sha256 or blake2b)", name)
	}
}

// newHash constructs a fresh hash instance. Workers call this per file so
// no hash state is ever shared between goroutines.
func (a DigestAlgorithm) newHash() (hash.Hash, error) {
	switch a {
	case DigestBLAKE2b:
		return blake2b.New256(nil)
	default:
		return sha256.New(), nil
	}
}

// digestFile hashes up to limit bytes of the file at path, or the whole
// file when limit <= 0. It returns the digest and the number of bytes read.
func digestFile(path string, algo DigestAlgorithm, limit int64) (Digest, int64, error) {
	var digest Digest

	f, err := os.Open(path)
	if err != nil {
		return digest, 0, err
	}
	defer f.Close()

	h, err := algo.newHash()
	if err != nil {
		return digest, 0, err
	}

	var src io.Reader = f
	if limit > 0 {
		src = io.LimitReader(f, limit)
	}

	n, err := io.Copy(h, src)
	if err != nil {
		return digest, n, err
	}

	copy(digest[:], h.Sum(nil))
	return digest, n, nil
}
