package lock

import (
	"context"
	"errors"
)

// ErrHeld is returned when another process holds the lock.
var ErrHeld = errors.New("lock held by another process")

type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}
