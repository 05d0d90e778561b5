package ports

import "context"

// Locker serializes operations that share a key.
//
//go:generate mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type Locker interface {
	// WithLock runs fn once every operation previously submitted for key has finished.
	//
	// Operations on the same key run one at a time in submission order; operations on
	// different keys do not wait for each other. The key is released on every exit
	// path of fn, and an error from fn does not affect later operations.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
