// Package lock provides per-key FIFO mutual exclusion.
package lock

import (
	"context"
	"sync"

	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
)

// KeyedLocker implements ports.Locker with one queue per key.
//
// Each key maps to the completion channel of the most recently submitted operation.
// A new operation swaps its own channel in as the tail and waits for the previous
// one to close, which yields strict submission order without a global lock.
type KeyedLocker struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

// New creates an empty KeyedLocker.
func New() *KeyedLocker {
	return &KeyedLocker{
		tails: make(map[string]chan struct{}),
	}
}

// WithLock runs fn after every earlier operation on key has finished.
//
// If ctx is cancelled while waiting, WithLock returns without running fn, but its
// slot is only released once its predecessor finishes so later operations keep
// their order.
func (l *KeyedLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	done := make(chan struct{})

	l.mu.Lock()
	prev := l.tails[key]
	l.tails[key] = done
	l.mu.Unlock()

	release := func() {
		l.mu.Lock()
		if l.tails[key] == done {
			delete(l.tails, key)
		}
		l.mu.Unlock()
		close(done)
	}

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				release()
			}()
			return zerr.With(zerr.Wrap(ctx.Err(), "cancelled while waiting for lock"), "key", key)
		}
	}

	defer release()
	return fn(ctx)
}

// Pending returns the number of keys with queued or running operations.
func (l *KeyedLocker) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tails)
}

// Do runs fn under locker's lock for key and returns its value.
func Do[T any](ctx context.Context, locker ports.Locker, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := locker.WithLock(ctx, key, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}
