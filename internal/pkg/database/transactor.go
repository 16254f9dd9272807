package database

import "context"

// Transactor scopes a unit of work. Repositories called with the context
// handed to fn take part in the same transaction.
type Transactor interface {
	// WithWriteLock runs fn exclusively; fn's writes are committed together or not at all.
	WithWriteLock(ctx context.Context, fn func(ctx context.Context) error) error

	// ReadTx runs fn against one consistent snapshot.
	ReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}
