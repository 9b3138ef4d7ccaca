package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLocalLocker_AcquireRelease(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(LocalOptions{Dir: dir, Name: "my-bucket-name"})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "my-bucket-name.lock")); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
	if err := l.Acquire(ctx); err == nil {
		t.Error("second Acquire on the same locker should fail")
	}
	if err := l.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Errorf("lock file should be removed, stat err = %v", err)
	}
	if err := l.Release(ctx); err != nil {
		t.Errorf("Release when not held should be a no-op: %v", err)
	}
}

func TestLocalLocker_HeldByOther(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a, _ := NewLocal(LocalOptions{Dir: dir, Name: "b"})
	b, _ := NewLocal(LocalOptions{Dir: dir, Name: "b"})
	if err := a.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer a.Release(ctx)

	err := b.Acquire(ctx)
	if !errors.Is(err, ErrHeld) {
		t.Errorf("expected ErrHeld, got %v", err)
	}
}

func TestLocalLocker_StaleLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.lock")
	if err := os.WriteFile(path, []byte("1 old\n"), 0640); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	l, _ := NewLocal(LocalOptions{Dir: dir, Name: "b", TTL: time.Hour})
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("stale lock should be taken over: %v", err)
	}
	_ = l.Release(context.Background())
}

func TestNewLocal_Validation(t *testing.T) {
	if _, err := NewLocal(LocalOptions{Name: "x"}); err == nil {
		t.Error("NewLocal without dir should fail")
	}
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		l, err := NewLocal(LocalOptions{Dir: "/tmp", Name: name})
		if err != nil {
			t.Fatalf("NewLocal(%q): %v", name, err)
		}
		if filepath.Base(l.Path()) != "default.lock" {
			t.Errorf("NewLocal(%q) path = %q, want default.lock", name, l.Path())
		}
	}
}
