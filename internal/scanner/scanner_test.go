package scanner

import (
	"context"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/fenilsonani/dupescan/internal/testutil"
)

func mustScan(t *testing.T, opts Options) *Result {
	t.Helper()

	s, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return result
}

// =============================================================================
// Duplicate Detection Tests
// =============================================================================

func TestScanFindsDuplicatePair(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFile("a.txt", []byte("hello"))
	b := f.CreateFile("b.txt", []byte("hello"))
	f.CreateFile("c.txt", []byte("world"))

	result := mustScan(t, Options{Root: f.RootDir})

	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result.Groups))
	}

	group := result.Groups[0]
	expected := []string{a, b}
	sort.Strings(expected)
	if !reflect.DeepEqual(group.Paths, expected) {
		t.Errorf("expected members %v, got %v", expected, group.Paths)
	}
	if group.Size != 5 {
		t.Errorf("expected group size 5, got %d", group.Size)
	}
	if group.Reclaimable() != 5 {
		t.Errorf("expected 5 reclaimable bytes, got %d", group.Reclaimable())
	}
	if result.Partial {
		t.Error("completed scan must not be marked partial")
	}
}

func TestScanNoDuplicates(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a.txt", []byte("alpha"))
	f.CreateFile("b.txt", []byte("beta"))
	f.CreateFile("c.txt", []byte("gamma and more"))

	result := mustScan(t, Options{Root: f.RootDir})

	if len(result.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(result.Groups))
	}
	if result.FilesScanned != 3 {
		t.Errorf("expected 3 files scanned, got %d", result.FilesScanned)
	}
}

func TestScanRejectsSharedPrefixOnly(t *testing.T) {
	f := testutil.NewFixture(t)

	// Identical through the whole partial-hash prefix, different after.
	prefix := testutil.Repeat('x', 64)
	f.CreateFile("one.bin", append(append([]byte{}, prefix...), []byte("tailA")...))
	f.CreateFile("two.bin", append(append([]byte{}, prefix...), []byte("tailB")...))

	result := mustScan(t, Options{Root: f.RootDir, PrefixSize: 64})

	if len(result.Groups) != 0 {
		t.Fatalf("phase 2 must reject files differing after the prefix, got %d groups", len(result.Groups))
	}
}

func TestScanFilesSmallerThanPrefix(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("x/a", []byte("tiny"))
	f.CreateFile("y/a", []byte("tiny"))

	result := mustScan(t, Options{Root: f.RootDir, PrefixSize: 1 << 20})

	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group for files smaller than the prefix, got %d", len(result.Groups))
	}
}

func TestScanGroupInvariants(t *testing.T) {
	f := testutil.NewFixture(t)
	inputs := map[string]bool{}
	inputs[f.CreateFile("dir1/a", testutil.Repeat('a', 1000))] = true
	inputs[f.CreateFile("dir2/b", testutil.Repeat('a', 1000))] = true
	inputs[f.CreateFile("dir3/c", testutil.Repeat('a', 1000))] = true
	inputs[f.CreateFile("dir1/d", testutil.Repeat('b', 1000))] = true
	inputs[f.CreateFile("dir2/e", testutil.Repeat('b', 1000))] = true
	inputs[f.CreateFile("unique", testutil.Repeat('c', 999))] = true

	result := mustScan(t, Options{Root: f.RootDir})

	if len(result.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result.Groups))
	}

	for _, group := range result.Groups {
		if group.Count() < 2 {
			t.Errorf("group %s has fewer than 2 members", group.Digest.Hex())
		}
		if !sort.StringsAreSorted(group.Paths) {
			t.Errorf("group members not sorted by path: %v", group.Paths)
		}
		for _, path := range group.Paths {
			if !inputs[path] {
				t.Errorf("group member %s is not one of the input files", path)
			}
		}
	}

	// Larger reclaimable total first: 3 copies of 'a' beat 2 copies of 'b'.
	if result.Groups[0].Count() != 3 {
		t.Errorf("expected the 3-member group first, got %d members", result.Groups[0].Count())
	}
	if result.TotalReclaimable() != 3000 {
		t.Errorf("expected 3000 total reclaimable bytes, got %d", result.TotalReclaimable())
	}
	if result.DuplicateFiles() != 3 {
		t.Errorf("expected 3 duplicate files, got %d", result.DuplicateFiles())
	}
}

func TestScanDeterministic(t *testing.T) {
	f := testutil.NewFixture(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		f.CreateFile("set1/"+name, testutil.Repeat('1', 512))
		f.CreateFile("set2/"+name, testutil.Repeat('2', 512))
		f.CreateFile("set3/"+name, testutil.Repeat('3', 256))
	}

	first := mustScan(t, Options{Root: f.RootDir, Workers: 8})
	second := mustScan(t, Options{Root: f.RootDir, Workers: 2})

	if !reflect.DeepEqual(first.Groups, second.Groups) {
		t.Errorf("scans of the same tree differ:\n%v\nvs\n%v", first.Groups, second.Groups)
	}
}

func TestScanBlake2bAlgorithm(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a", []byte("same content"))
	f.CreateFile("b", []byte("same content"))

	result := mustScan(t, Options{Root: f.RootDir, Algorithm: DigestBLAKE2b})

	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group with blake2b, got %d", len(result.Groups))
	}
	if len(result.Groups[0].Digest.Hex()) != 64 {
		t.Errorf("expected a 256-bit hex digest, got %q", result.Groups[0].Digest.Hex())
	}
}

// =============================================================================
// Filtering Tests
// =============================================================================

func TestScanMinFileSize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("small1", []byte("dup"))
	f.CreateFile("small2", []byte("dup"))
	f.CreateFile("big1", testutil.Repeat('z', 2048))
	f.CreateFile("big2", testutil.Repeat('z', 2048))

	result := mustScan(t, Options{Root: f.RootDir, MinFileSize: 1024})

	if len(result.Groups) != 1 {
		t.Fatalf("expected only the large pair, got %d groups", len(result.Groups))
	}
	if result.Groups[0].Size != 2048 {
		t.Errorf("expected group size 2048, got %d", result.Groups[0].Size)
	}
	if result.FilesScanned != 2 {
		t.Errorf("expected 2 files past the size filter, got %d", result.FilesScanned)
	}
}

func TestScanExcludePatterns(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("keep1.txt", []byte("content"))
	f.CreateFile("keep2.txt", []byte("content"))
	f.CreateFile("skip1.log", []byte("content"))
	f.CreateFile("node_modules/dep.txt", []byte("content"))

	result := mustScan(t, Options{
		Root:            f.RootDir,
		ExcludePatterns: []string{"*.log", "node_modules"},
	})

	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result.Groups))
	}
	for _, path := range result.Groups[0].Paths {
		if filepath.Ext(path) == ".log" {
			t.Errorf("excluded file made it into a group: %s", path)
		}
	}
	if result.Groups[0].Count() != 2 {
		t.Errorf("expected 2 members, got %d", result.Groups[0].Count())
	}
}

func TestScanExcludeRelativePathPattern(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("build/out.bin", []byte("artifact"))
	f.CreateFile("src/out.bin", []byte("artifact"))
	f.CreateFile("src/copy.bin", []byte("artifact"))

	result := mustScan(t, Options{
		Root:            f.RootDir,
		ExcludePatterns: []string{"build/*"},
	})

	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result.Groups))
	}
	if result.Groups[0].Count() != 2 {
		t.Errorf("expected the two src files only, got %v", result.Groups[0].Paths)
	}
}

func TestScanIgnoresSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateFile("real.txt", []byte("linked content"))
	f.CreateFile("other.txt", []byte("linked content"))
	f.CreateSymlink(target, "link.txt")

	// A directory symlink pointing back at the root must not recurse.
	f.CreateSymlink(f.RootDir, "loop")

	result := mustScan(t, Options{Root: f.RootDir})

	if result.FilesScanned != 2 {
		t.Errorf("expected 2 regular files scanned, got %d", result.FilesScanned)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result.Groups))
	}
	if result.Groups[0].Count() != 2 {
		t.Errorf("symlink counted as a duplicate member: %v", result.Groups[0].Paths)
	}
}

func TestScanSkipsHardLinkedPaths(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateFile("original", []byte("shared storage"))
	f.CreateHardLink(target, "alias")

	result := mustScan(t, Options{Root: f.RootDir})

	// Two paths, one inode: nothing reclaimable, so no group.
	if len(result.Groups) != 0 {
		t.Errorf("hard links must not form a duplicate group, got %v", result.Groups)
	}
}

// =============================================================================
// Error Handling Tests
// =============================================================================

func TestScanVanishedFileBecomesWarning(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFile("a", testutil.Repeat('q', 100))
	b := f.CreateFile("b", testutil.Repeat('q', 100))
	gone := filepath.Join(f.RootDir, "gone")

	s, err := New(Options{Root: f.RootDir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Drive the hash stage directly with a descriptor for a file that was
	// deleted between enumeration and hashing.
	group := []FileDescriptor{
		{Path: a, Size: 100},
		{Path: b, Size: 100},
		{Path: gone, Size: 100},
	}
	out, cancelled := s.hashStage(context.Background(), [][]FileDescriptor{group}, 0)

	if cancelled {
		t.Fatal("stage must not report cancellation")
	}
	if len(out) != 1 {
		t.Fatalf("expected the surviving pair to group, got %d groups", len(out))
	}
	if len(out[0].files) != 2 {
		t.Errorf("expected 2 surviving members, got %d", len(out[0].files))
	}

	if len(s.warnings) != 1 {
		t.Fatalf("expected 1 read warning, got %d", len(s.warnings))
	}
	if s.warnings[0].Path != gone || s.warnings[0].Op != "read" {
		t.Errorf("unexpected warning: %v", s.warnings[0])
	}
}

func TestScanGroupShrinksToSingletonDropped(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFile("a", testutil.Repeat('q', 100))
	gone := filepath.Join(f.RootDir, "gone")

	s, err := New(Options{Root: f.RootDir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	group := []FileDescriptor{
		{Path: a, Size: 100},
		{Path: gone, Size: 100},
	}
	out, _ := s.hashStage(context.Background(), [][]FileDescriptor{group}, 0)

	if len(out) != 0 {
		t.Errorf("a group shrunk below 2 members must be dropped, got %v", out)
	}
}

// =============================================================================
// Cancellation Tests
// =============================================================================

func TestScanCancelledBeforeStart(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a", []byte("dup"))
	f.CreateFile("b", []byte("dup"))

	s, err := New(Options{Root: f.RootDir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Scan(ctx)
	if err != nil {
		t.Fatalf("cancellation must not be an error: %v", err)
	}
	if !result.Partial {
		t.Error("cancelled scan must be marked partial")
	}
	if len(result.Groups) != 0 {
		t.Errorf("no groups can be confirmed before the scan starts, got %d", len(result.Groups))
	}
}

func TestScanCancelledMidway(t *testing.T) {
	f := testutil.NewFixture(t)
	for i := 0; i < 50; i++ {
		f.CreateFile(filepath.Join("d", string(rune('a'+i%26)), "f"+string(rune('0'+i%10))), testutil.Repeat(byte(i%7), 4096))
	}

	s, err := New(Options{Root: f.RootDir, Workers: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	result, err := s.Scan(ctx)
	if err != nil {
		t.Fatalf("cancellation must not be an error: %v", err)
	}

	// Whatever was confirmed must still be well-formed.
	for _, group := range result.Groups {
		if group.Count() < 2 {
			t.Errorf("partial result contains an under-populated group: %v", group.Paths)
		}
		if !sort.StringsAreSorted(group.Paths) {
			t.Errorf("partial result group not path-sorted: %v", group.Paths)
		}
	}
}

// =============================================================================
// Option Validation Tests
// =============================================================================

func TestNewRejectsMissingRoot(t *testing.T) {
	if _, err := New(Options{Root: "/nonexistent/dupescan/root"}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("file", []byte("x"))

	if _, err := New(Options{Root: path}); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	f := testutil.NewFixture(t)

	if _, err := New(Options{Root: f.RootDir, ExcludePatterns: []string{"[unclosed"}}); err == nil {
		t.Error("expected error for malformed glob pattern")
	}
}

func TestNewRejectsNegativeValues(t *testing.T) {
	f := testutil.NewFixture(t)

	if _, err := New(Options{Root: f.RootDir, Workers: -1}); err == nil {
		t.Error("expected error for negative workers")
	}
	if _, err := New(Options{Root: f.RootDir, MinFileSize: -1}); err == nil {
		t.Error("expected error for negative min size")
	}
	if _, err := New(Options{Root: f.RootDir, PrefixSize: -1}); err == nil {
		t.Error("expected error for negative prefix size")
	}
}

func TestNewDefaults(t *testing.T) {
	f := testutil.NewFixture(t)

	s, err := New(Options{Root: f.RootDir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if s.opts.Workers < 1 || s.opts.Workers > MaxWorkers {
		t.Errorf("default workers out of range: %d", s.opts.Workers)
	}
	if s.opts.PrefixSize != DefaultPrefixSize {
		t.Errorf("expected default prefix %d, got %d", DefaultPrefixSize, s.opts.PrefixSize)
	}
	if s.opts.Algorithm != DigestSHA256 {
		t.Errorf("expected default algorithm sha256, got %s", s.opts.Algorithm)
	}
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	f := testutil.NewFixture(t)

	if _, err := New(Options{Root: f.RootDir, Algorithm: "md5"}); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}
