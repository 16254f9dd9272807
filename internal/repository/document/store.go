package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/metrics"
)

var ErrReadOnlyTransaction = errors.New("write attempted inside a read transaction")

// Store guards the document. Writers are serialised by one process-wide lock
// and work on a private clone that replaces the live document only after it
// has been persisted.
type Store struct {
	mu        sync.RWMutex
	doc       *Document
	persister Persister
}

type txKey struct{}

type txState struct {
	doc      *Document
	writable bool
}

// NewStore loads the document through p.
func NewStore(ctx context.Context, p Persister) (*Store, error) {
	doc, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		doc = NewDocument()
	}
	if doc.seq == nil {
		doc.normalize()
	}
	return &Store{doc: doc, persister: p}, nil
}

func fromContext(ctx context.Context) (*txState, bool) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	return tx, ok
}

// View runs fn against the document. Inside a transaction fn sees the
// transaction's copy; otherwise it runs under the shared lock. fn must not
// retain or modify what it is given.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	if tx, ok := fromContext(ctx); ok {
		return fn(tx.doc)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

// ReadTx holds the shared lock for the whole of fn so that several reads see
// one consistent snapshot. Writes inside fn fail with ErrReadOnlyTransaction.
func (s *Store) ReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := fromContext(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, &txState{doc: s.doc}))
}

// WithWriteLock runs fn as a write transaction. fn works on a clone of the
// document reachable through the context it receives. If fn returns nil the
// clone is saved and becomes the live document; if fn fails, panics or the
// save fails, the live document is unchanged. Nested calls join the
// enclosing transaction.
func (s *Store) WithWriteLock(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if tx, ok := fromContext(ctx); ok {
		if !tx.writable {
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.doc.Clone()
	txCtx := context.WithValue(ctx, txKey{}, &txState{doc: working, writable: true})

	defer func() {
		if p := recover(); p != nil {
			metrics.ObserveTransaction(metrics.OutcomeRollback)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		metrics.ObserveTransaction(metrics.OutcomeRollback)
		return err
	}

	start := time.Now()
	if err := s.persister.Save(ctx, working); err != nil {
		metrics.ObserveTransaction(metrics.OutcomeRollback)
		slog.Error("failed to persist document", "error", err)
		return fmt.Errorf("persist document: %w", err)
	}
	metrics.ObserveSave(time.Since(start))
	metrics.ObserveTransaction(metrics.OutcomeCommit)

	s.doc = working
	return nil
}

// update runs fn against the writable document, opening a transaction when
// the caller has not.
func (s *Store) update(ctx context.Context, fn func(doc *Document) error) error {
	return s.WithWriteLock(ctx, func(ctx context.Context) error {
		tx, _ := fromContext(ctx)
		return fn(tx.doc)
	})
}
