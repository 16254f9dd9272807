package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	left := joined.Add(48 * time.Hour)
	manager := 1

	doc := NewDocument()
	doc.Employees = []employee.Employee{
		{ID: 1, Name: "Alice", Code: "E1", Email: "alice@example.com", IsManager: true, Status: employee.StatusActive, Skills: []employee.Skill{{Name: "Go"}}},
		{ID: 2, Name: "Bob", Code: "E2", Email: "bob@example.com", Manager: &manager, Status: employee.StatusActive, Skills: []employee.Skill{}},
	}
	doc.Projects = []project.Project{{
		ID: 1, Name: "Apollo", Manager: 1, Status: project.StatusInProgress, Technologies: []string{"Go"},
		Employees: []staffing.Entry{
			{EmployeeID: 2, Periods: []staffing.Period{{JoiningTime: joined, LeavingTime: &left}, {JoiningTime: left}}},
		},
	}}
	doc.Positions = []position.Position{{ID: 1, Name: "Developer"}}
	doc.normalize()
	return doc
}

func assertRoundTrip(t *testing.T, p Persister) {
	t.Helper()
	ctx := context.Background()
	want := sampleDocument()

	require.NoError(t, p.Save(ctx, want))
	got, err := p.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Employees, got.Employees)
	assert.Equal(t, want.Positions, got.Positions)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, want.Projects[0].Employees, got.Projects[0].Employees)
	assert.Equal(t, 3, got.NextID(CollectionEmployees))
}

func TestFilePersister_MissingFileLoadsEmpty(t *testing.T) {
	p, err := NewFilePersister(filepath.Join(t.TempDir(), "nested", "db.json"))
	require.NoError(t, err)

	doc, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Employees)
	assert.NotNil(t, doc.Employees)
}

func TestFilePersister_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	p, err := NewFilePersister(path)
	require.NoError(t, err)

	assertRoundTrip(t, p)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFilePersister_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	p, err := NewFilePersister(path)
	require.NoError(t, err)
	_, err = p.Load(context.Background())
	assert.ErrorContains(t, err, "failed to decode document")
}

func TestFilePersister_PartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"employees":[{"id":5,"name":"Eve"}]}`), 0644))

	p, err := NewFilePersister(path)
	require.NoError(t, err)
	doc, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, doc.Projects)
	assert.Equal(t, 6, doc.NextID(CollectionEmployees))
}

func TestSQLitePersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "hrm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p, err := NewSQLitePersister(ctx, db, "hrm")
	require.NoError(t, err)

	empty, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Employees)

	assertRoundTrip(t, p)

	// second save takes the upsert path
	doc := sampleDocument()
	doc.Positions = append(doc.Positions, position.Position{ID: 2, Name: "QA"})
	require.NoError(t, p.Save(ctx, doc))
	got, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Positions, 2)
}

func TestSQLitePersister_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS documents")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("hrm", sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	p, err := NewSQLitePersister(context.Background(), db, "hrm")
	require.NoError(t, err)

	err = p.Save(context.Background(), NewDocument())
	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLitePersister_LoadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS documents")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM documents WHERE name = ?")).
		WithArgs("hrm").
		WillReturnError(errors.New("disk I/O error"))

	p, err := NewSQLitePersister(context.Background(), db, "hrm")
	require.NoError(t, err)

	_, err = p.Load(context.Background())
	assert.ErrorContains(t, err, "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLitePersister_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS documents")).WillReturnError(errors.New("readonly database"))

	_, err = NewSQLitePersister(context.Background(), db, "hrm")
	assert.ErrorContains(t, err, "failed to create documents table")
}

func TestSQLitePersister_LoadStoredRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS documents")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM documents")).
		WithArgs("hrm").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`{"positions":[{"id":4,"name":"PM"}]}`))

	p, err := NewSQLitePersister(context.Background(), db, "hrm")
	require.NoError(t, err)

	doc, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []position.Position{{ID: 4, Name: "PM"}}, doc.Positions)
	assert.Equal(t, 5, doc.NextID(CollectionPositions))
}

func TestPostgresPersister_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	name := "hrm_test_" + time.Now().Format("20060102150405.000000000")
	p, err := NewPostgresPersister(ctx, db, name)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), "DELETE FROM documents WHERE name = $1", name)
	})

	empty, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Projects)

	assertRoundTrip(t, p)
}

func TestMemoryPersister(t *testing.T) {
	p := &MemoryPersister{Initial: sampleDocument()}
	s, err := NewStore(context.Background(), p)
	require.NoError(t, err)

	e, err := NewEmployeeRepository(s).GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", e.Name)
}
