package document

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu      sync.Mutex
	saves   int
	saved   *Document
	failErr error
}

func (p *recordingPersister) Load(ctx context.Context) (*Document, error) {
	return NewDocument(), nil
}

func (p *recordingPersister) Save(ctx context.Context, doc *Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.saves++
	p.saved = doc.Clone()
	return nil
}

func newTestStore(t *testing.T) (*Store, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{}
	s, err := NewStore(context.Background(), p)
	require.NoError(t, err)
	return s, p
}

func employeeCount(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.View(context.Background(), func(doc *Document) error {
		n = len(doc.Employees)
		return nil
	}))
	return n
}

func TestWithWriteLock_CommitPersistsAndSwaps(t *testing.T) {
	s, p := newTestStore(t)
	repo := NewEmployeeRepository(s)

	err := s.WithWriteLock(context.Background(), func(ctx context.Context) error {
		_, err := repo.Create(ctx, employee.Employee{Name: "Alice"})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 1, employeeCount(t, s))
	assert.Equal(t, 1, p.saves)
	assert.Len(t, p.saved.Employees, 1)
}

func TestWithWriteLock_ErrorRollsBack(t *testing.T) {
	s, p := newTestStore(t)
	repo := NewEmployeeRepository(s)
	boom := errors.New("boom")

	err := s.WithWriteLock(context.Background(), func(ctx context.Context) error {
		if _, err := repo.Create(ctx, employee.Employee{Name: "Alice"}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, employeeCount(t, s))
	assert.Equal(t, 0, p.saves)
}

func TestWithWriteLock_PanicRollsBackAndReleasesLock(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewEmployeeRepository(s)

	assert.Panics(t, func() {
		_ = s.WithWriteLock(context.Background(), func(ctx context.Context) error {
			_, _ = repo.Create(ctx, employee.Employee{Name: "Alice"})
			panic("unexpected")
		})
	})

	assert.Equal(t, 0, employeeCount(t, s))
	_, err := repo.Create(context.Background(), employee.Employee{Name: "Bob"})
	assert.NoError(t, err)
}

func TestWithWriteLock_SaveFailureKeepsLiveDocument(t *testing.T) {
	s, p := newTestStore(t)
	p.failErr = errors.New("disk full")

	_, err := NewEmployeeRepository(s).Create(context.Background(), employee.Employee{Name: "Alice"})

	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, employeeCount(t, s))
}

func TestWithWriteLock_NestedJoinsOuter(t *testing.T) {
	s, p := newTestStore(t)
	repo := NewEmployeeRepository(s)

	err := s.WithWriteLock(context.Background(), func(ctx context.Context) error {
		if _, err := repo.Create(ctx, employee.Employee{Name: "A"}); err != nil {
			return err
		}
		return s.WithWriteLock(ctx, func(ctx context.Context) error {
			_, err := repo.Create(ctx, employee.Employee{Name: "B"})
			return err
		})
	})
	require.NoError(t, err)

	assert.Equal(t, 2, employeeCount(t, s))
	assert.Equal(t, 1, p.saves)
}

func TestWithWriteLock_CancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithWriteLock(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestReadTx_RejectsWrites(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewEmployeeRepository(s)

	err := s.ReadTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.Create(ctx, employee.Employee{Name: "A"})
		return err
	})
	assert.ErrorIs(t, err, ErrReadOnlyTransaction)
}

func TestWithWriteLock_SerialisesWriters(t *testing.T) {
	s, _ := newTestStore(t)
	repo := NewEmployeeRepository(s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), employee.Employee{Name: "x", CreatedAt: time.Now()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 20)
	seen := map[int]bool{}
	for _, e := range all {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}
}
