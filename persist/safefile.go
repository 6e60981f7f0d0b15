package persist

import (
	"os"
	"path/filepath"
)

// SafeFile provides atomic file writes: data is written to a temporary file
// alongside the destination, and only moved into place once Commit is
// called, so a reader can never observe a partially-written file at the
// final path.
type SafeFile struct {
	f         *os.File
	finalName string
	committed bool
	closed    bool
}

// NewSafeFile creates a temporary file in the same directory as path (so the
// later rename stays within one filesystem) and returns a SafeFile wrapping
// it. The final path is resolved to an absolute path immediately, so a
// caller that changes its working directory before calling Commit is
// unaffected.
func NewSafeFile(path string) (*SafeFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(absPath)
	tmpName := filepath.Join(dir, filepath.Base(absPath)+".tmp-"+RandomSuffix())
	f, err := os.OpenFile(tmpName, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}
	return &SafeFile{f: f, finalName: absPath}, nil
}

// Name returns the path of the temporary file backing sf. It differs from
// the file's final path until Commit is called.
func (sf *SafeFile) Name() string {
	return sf.f.Name()
}

// Write appends p to the temporary file.
func (sf *SafeFile) Write(p []byte) (int, error) {
	return sf.f.Write(p)
}

// Commit flushes the temporary file to disk and atomically renames it to
// its final path.
func (sf *SafeFile) Commit() error {
	if err := sf.f.Sync(); err != nil {
		return err
	}
	if err := sf.f.Close(); err != nil {
		return err
	}
	sf.closed = true
	if err := os.Rename(sf.f.Name(), sf.finalName); err != nil {
		return err
	}
	sf.committed = true
	return nil
}

// Close releases the temporary file. If Commit was never called, the
// temporary file is removed instead of left behind. Close is safe to call
// more than once, and safe to call after Commit.
func (sf *SafeFile) Close() error {
	if sf.closed {
		return nil
	}
	sf.closed = true
	name := sf.f.Name()
	if err := sf.f.Close(); err != nil {
		return err
	}
	if !sf.committed {
		os.Remove(name)
	}
	return nil
}
