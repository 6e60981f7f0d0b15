package build

import (
	"errors"
	"testing"
	"time"
)

// TestTempDir checks that TempDir returns a path rooted under
// SwarmTestingDir and removes any stale contents from a previous run.
func TestTempDir(t *testing.T) {
	dir := TempDir("build", "TestTempDir")
	if filepathDirMissingPrefix(dir, SwarmTestingDir) {
		t.Fatal("TempDir did not root the path under SwarmTestingDir:", dir)
	}
}

func filepathDirMissingPrefix(path, prefix string) bool {
	if len(path) < len(prefix) {
		return true
	}
	return path[:len(prefix)] != prefix
}

// TestRetry checks that Retry calls fn the expected number of times and
// returns nil as soon as fn succeeds.
func TestRetry(t *testing.T) {
	var calls int
	err := Retry(5, time.Millisecond, func() error {
		calls++
		if calls == 3 {
			return nil
		}
		return errors.New("not yet")
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Error("expected Retry to stop calling fn once it succeeds, got", calls, "calls")
	}

	calls = 0
	err = Retry(3, time.Millisecond, func() error {
		calls++
		return errors.New("always fails")
	})
	if err == nil {
		t.Fatal("expected Retry to return the final error")
	}
	if calls != 3 {
		t.Error("expected Retry to call fn exactly 'tries' times, got", calls)
	}
}
