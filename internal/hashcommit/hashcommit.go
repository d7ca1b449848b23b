// Package hashcommit writes a file only when its content changes: it
// hashes the new content and the existing destination (if any) with
// xxhash, and when they differ stages the content in a temp file and
// renames it into place. Grounded on imageset-packer's
// internal/cli/pack_cache.go (hashFileXX, writeCacheHash), generalised
// from a pack-skip cache check into a general write-if-changed primitive
// so repeated writes of unchanged content don't touch the destination's
// mtime. No other package in this repository calls it; imageio.Save
// writes through its own temp-file-and-rename helper.
package hashcommit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// HashFile returns the xxhash64 of path's contents and its size.
func HashFile(path string) (uint64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("stat %q: %w", path, err)
	}

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, 0, fmt.Errorf("hash %q: %w", path, err)
	}
	return h.Sum64(), info.Size(), nil
}

// HashBytes returns the xxhash64 of data.
func HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Result reports what Write actually did.
type Result struct {
	Changed bool
	Hash    uint64
}

// Write stages data in a temp file beside dest, then renames it into
// place only if dest is missing or its content hash differs from data's.
// If the content is unchanged, dest is left untouched (mtime included)
// and no temp file is created.
func Write(dest string, data []byte) (Result, error) {
	newHash := HashBytes(data)

	if existingHash, _, err := HashFile(dest); err == nil && existingHash == newHash {
		return Result{Changed: false, Hash: newHash}, nil
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".hashcommit-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Result{}, fmt.Errorf("write temp file %q: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close temp file %q: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return Result{}, fmt.Errorf("rename %q to %q: %w", tmpPath, dest, err)
	}
	return Result{Changed: true, Hash: newHash}, nil
}
