package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// rotation decides when a log file is moved aside.
type rotation struct {
	maxSize    int64         // 0 = no size limit
	maxAge     time.Duration // 0 = no age limit
	maxBackups int           // 0 = keep all
}

func (r rotation) due(size int64, opened time.Time) bool {
	if r.maxSize > 0 && size >= r.maxSize {
		return true
	}
	return r.maxAge > 0 && time.Since(opened) >= r.maxAge
}

// logFile is one open log file shared by every FileHandler writing the
// same path. During a backend swap the old and new handlers both append
// to it, and rotation happens once for both.
type logFile struct {
	path string

	mu     sync.Mutex
	file   *os.File
	size   int64
	opened time.Time
	policy rotation
	refs   int // guarded by openFilesMu
}

var (
	openFilesMu sync.Mutex
	openFiles   = map[string]*logFile{}
)

// acquireLogFile returns the shared file for path, opening it on first use.
// The most recent caller's rotation policy applies from then on.
func acquireLogFile(path string, policy rotation) (*logFile, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}

	openFilesMu.Lock()
	defer openFilesMu.Unlock()

	if lf, ok := openFiles[key]; ok {
		lf.refs++
		lf.mu.Lock()
		lf.policy = policy
		lf.mu.Unlock()
		return lf, nil
	}

	if err := os.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, size, err := openAppend(key)
	if err != nil {
		return nil, err
	}
	lf := &logFile{
		path:   key,
		file:   f,
		size:   size,
		opened: time.Now(),
		policy: policy,
		refs:   1,
	}
	openFiles[key] = lf
	return lf, nil
}

func openAppend(path string) (*os.File, int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat log file %s: %w", path, err)
	}
	return f, info.Size(), nil
}

// release drops one reference and closes the file with the last one.
func (lf *logFile) release() error {
	openFilesMu.Lock()
	lf.refs--
	last := lf.refs == 0
	if last {
		delete(openFiles, lf.path)
	}
	openFilesMu.Unlock()

	if !last {
		return lf.sync()
	}

	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.file == nil {
		return nil
	}
	err := errors.Join(lf.file.Sync(), lf.file.Close())
	lf.file = nil
	return err
}

func (lf *logFile) write(data []byte) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.file == nil {
		// A failed rotation left no file; try once more before giving up.
		f, size, err := openAppend(lf.path)
		if err != nil {
			return err
		}
		lf.file, lf.size, lf.opened = f, size, time.Now()
	}

	if lf.policy.due(lf.size, lf.opened) {
		if err := lf.rotate(); err != nil {
			return err
		}
	}

	n, err := lf.file.Write(data)
	lf.size += int64(n)
	return err
}

func (lf *logFile) sync() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.file == nil {
		return nil
	}
	return lf.file.Sync()
}

// backupLayout is the suffix rotate appends to backups. Only files whose
// suffix parses with it are pruned.
const backupLayout = "2006-01-02T15-04-05.000000000"

// rotate renames the live file to path.<timestamp> and reopens path.
// Called with lf.mu held.
func (lf *logFile) rotate() error {
	if err := lf.file.Close(); err != nil {
		return err
	}
	lf.file = nil

	backup := lf.path + "." + time.Now().Format(backupLayout)
	renameErr := os.Rename(lf.path, backup)

	f, size, err := openAppend(lf.path)
	if err != nil {
		return errors.Join(renameErr, err)
	}
	lf.file, lf.size, lf.opened = f, size, time.Now()
	if renameErr != nil {
		return fmt.Errorf("rotate %s: %w", lf.path, renameErr)
	}

	if lf.policy.maxBackups > 0 {
		removeOldBackups(lf.path, lf.policy.maxBackups)
	}
	return nil
}

// removeOldBackups keeps the newest keep backups of path.
func removeOldBackups(path string, keep int) {
	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		return
	}
	prefix := filepath.Base(path) + "."
	backups := matches[:0]
	for _, m := range matches {
		suffix, ok := strings.CutPrefix(filepath.Base(m), prefix)
		if !ok {
			continue
		}
		if _, err := time.Parse(backupLayout, suffix); err == nil {
			backups = append(backups, m)
		}
	}

	// Timestamp suffixes sort chronologically
	sort.Strings(backups)
	for len(backups) > keep {
		if err := os.Remove(backups[0]); err != nil {
			return
		}
		backups = backups[1:]
	}
}
