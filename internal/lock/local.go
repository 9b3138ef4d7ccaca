package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var _ Locker = (*LocalLocker)(nil)

// LocalLocker is an exclusive lock file under a state directory. Syncs of the
// same bucket from one machine serialize on it.
type LocalLocker struct {
	path string
	ttl  time.Duration
	file *os.File
	mu   sync.Mutex
	held bool
}

type LocalOptions struct {
	Dir  string
	Name string
	// TTL after which an existing lock file is treated as stale. Zero means
	// never.
	TTL time.Duration
}

func NewLocal(opts LocalOptions) (*LocalLocker, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("local lock: dir is required")
	}
	name := SanitizeName(opts.Name)
	return &LocalLocker{path: filepath.Join(opts.Dir, name+".lock"), ttl: opts.TTL}, nil
}

// SanitizeName reduces name to a single safe path element, falling back to
// "default".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "default"
	}
	return name
}

func (l *LocalLocker) Path() string { return l.path }

func (l *LocalLocker) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("lock %s already held by this process", l.path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	tryAcquire := func() (*os.File, error) {
		return os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0640)
	}

	file, err := tryAcquire()
	if err != nil {
		if !os.IsExist(err) {
			return fmt.Errorf("create lock file: %w", err)
		}
		if l.ttl <= 0 {
			return fmt.Errorf("%w: %s", ErrHeld, l.path)
		}
		info, statErr := os.Stat(l.path)
		if statErr != nil {
			return fmt.Errorf("lock file exists and stat failed: %w", statErr)
		}
		if time.Since(info.ModTime()) < l.ttl {
			return fmt.Errorf("%w: %s (age %s)", ErrHeld, l.path, time.Since(info.ModTime()).Round(time.Second))
		}
		if removeErr := os.Remove(l.path); removeErr != nil {
			return fmt.Errorf("stale lock file exists, remove failed: %w", removeErr)
		}
		file, err = tryAcquire()
		if err != nil {
			return fmt.Errorf("retry acquire after stale remove: %w", err)
		}
	}

	stamp := fmt.Sprintf("%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(stamp); err != nil {
		_ = file.Close()
		_ = os.Remove(l.path)
		return fmt.Errorf("write lock file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(l.path)
		return fmt.Errorf("sync lock file: %w", err)
	}

	l.file = file
	l.held = true
	return nil
}

func (l *LocalLocker) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	var errs []error
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			errs = append(errs, err)
		}
		l.file = nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	l.held = false
	if len(errs) > 0 {
		return fmt.Errorf("release lock: %v", errs)
	}
	return nil
}
