// Package flatfile implements the flat-file storage backend: one
// colon-delimited text file per table, serialized by exclusive advisory
// locks and rewritten atomically via temp-file rename.
package flatfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/jotterhq/jotter/pkg/types"
)

// lockSuffix names the sidecar lock file next to each table file. The
// sidecar is flocked instead of the table file itself so that the lock
// identity survives the rename performed by rewrites; every locker, in this
// process or another, contends on the same inode.
const lockSuffix = ".lock"

// lockRegistry hands out one in-process mutex per path. flock serializes
// processes but not goroutines sharing a descriptor, so the mutex layer is
// required when several goroutines use the same store.
type lockRegistry struct {
	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{paths: make(map[string]*sync.Mutex)}
}

func (r *lockRegistry) mutexFor(path string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.paths[path]
	if !ok {
		m = &sync.Mutex{}
		r.paths[path] = m
	}
	return m
}

// session holds exclusive access to one table file for the duration of a
// read or read-modify-write operation. Acquisition blocks without timeout;
// release happens on every exit path via a deferred Close.
type session struct {
	path     string
	lockFile *os.File
	pathMu   *sync.Mutex
	closed   bool
}

// acquire takes the per-path mutex, then the exclusive flock on the sidecar
// lock file. An open failure (permission, missing parent directory) is a
// storage failure, never an empty read.
func (r *lockRegistry) acquire(path string) (*session, error) {
	m := r.mutexFor(path)
	m.Lock()

	lf, err := os.OpenFile(path+lockSuffix, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		m.Unlock()
		return nil, fmt.Errorf("%w: opening lock for %s: %v", types.ErrStorageFailure, path, err)
	}
	if err := unix.Flock(int(lf.Fd()), unix.LOCK_EX); err != nil {
		lf.Close()
		m.Unlock()
		return nil, fmt.Errorf("%w: locking %s: %v", types.ErrStorageFailure, path, err)
	}
	return &session{path: path, lockFile: lf, pathMu: m}, nil
}

// Close releases the flock and the per-path mutex. Idempotent.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := unix.Flock(int(s.lockFile.Fd()), unix.LOCK_UN)
	if cerr := s.lockFile.Close(); err == nil {
		err = cerr
	}
	s.pathMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: unlocking %s: %v", types.ErrStorageFailure, s.path, err)
	}
	return nil
}

// readLines returns the file's lines without terminators. A file that does
// not exist yet reads as empty.
func (s *session) readLines() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrStorageFailure, s.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", types.ErrStorageFailure, s.path, err)
	}
	return lines, nil
}

// appendLine writes one line to the end of the file and syncs it, creating
// the file if needed.
func (s *session) appendLine(line string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening %s for append: %v", types.ErrStorageFailure, s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("%w: appending to %s: %v", types.ErrStorageFailure, s.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %s: %v", types.ErrStorageFailure, s.path, err)
	}
	return nil
}

// replaceLines atomically replaces the file's contents with the given lines
// using the temp-file, fsync, rename pattern. A crash before the rename
// leaves the original file fully intact; a concurrent reader never observes
// a half-written state.
func (s *session) replaceLines(lines []string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %v", types.ErrStorageFailure, dir, err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("%w: writing line: %v", types.ErrStorageFailure, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("%w: writing newline: %v", types.ErrStorageFailure, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: flushing buffer: %v", types.ErrStorageFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: syncing temp file: %v", types.ErrStorageFailure, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", types.ErrStorageFailure, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %v", types.ErrStorageFailure, err)
	}
	return nil
}
