package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/paylink/internal/model"
)

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+usernames\s*\(id,\s*name,\s*address,\s*signature,\s*registered_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*ON\s+CONFLICT\s*\(name\)\s*DO\s+NOTHING\s*$`
	selectQuery = `(?s)^SELECT\s+id,\s*name,\s*address,\s*signature,\s*registered_at\s+FROM\s+usernames\s+WHERE\s+name\s*=\s*\$1\s*$`
)

func newRegistryWithMock(t *testing.T) (*Registry, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRegistry(db), mock
}

func testRecord() *model.UsernameRecord {
	return &model.UsernameRecord{
		ID:           uuid.MustParse("7b0c6a3e-3f54-4d9e-9a51-0e7f3c2b1a10"),
		Name:         "alice",
		Address:      "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Signature:    "sig",
		RegisteredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCreate_Success(t *testing.T) {
	reg, mock := newRegistryWithMock(t)
	rec := testRecord()

	mock.ExpectExec(insertQuery).
		WithArgs(rec.ID, rec.Name, rec.Address, rec.Signature, rec.RegisteredAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, reg.Create(context.Background(), rec))
}

func TestCreate_Conflict(t *testing.T) {
	reg, mock := newRegistryWithMock(t)
	rec := testRecord()

	mock.ExpectExec(insertQuery).
		WithArgs(rec.ID, rec.Name, rec.Address, rec.Signature, rec.RegisteredAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := reg.Create(context.Background(), rec)
	assert.ErrorIs(t, err, model.ErrNameTaken)
}

func TestCreate_UniqueViolation(t *testing.T) {
	reg, mock := newRegistryWithMock(t)
	rec := testRecord()

	mock.ExpectExec(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "usernames_name_key"})

	err := reg.Create(context.Background(), rec)
	assert.ErrorIs(t, err, model.ErrNameTaken)
}

func TestCreate_OtherPgError(t *testing.T) {
	reg, mock := newRegistryWithMock(t)

	mock.ExpectExec(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "22001", Message: "value too long"})

	err := reg.Create(context.Background(), testRecord())
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNameTaken)
	assert.NotErrorIs(t, err, model.ErrNetwork)
}

func TestCreate_ConnectionError(t *testing.T) {
	reg, mock := newRegistryWithMock(t)

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("connection refused"))

	err := reg.Create(context.Background(), testRecord())
	assert.ErrorIs(t, err, model.ErrNetwork)
}

func TestGet_Found(t *testing.T) {
	reg, mock := newRegistryWithMock(t)
	rec := testRecord()

	rows := sqlmock.NewRows([]string{"id", "name", "address", "signature", "registered_at"}).
		AddRow(rec.ID.String(), rec.Name, rec.Address, rec.Signature, rec.RegisteredAt)
	mock.ExpectQuery(selectQuery).WithArgs("alice").WillReturnRows(rows)

	got, err := reg.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, got)
}

func TestGet_NotFound(t *testing.T) {
	reg, mock := newRegistryWithMock(t)

	mock.ExpectQuery(selectQuery).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	got, err := reg.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGet_Canceled(t *testing.T) {
	reg, mock := newRegistryWithMock(t)

	mock.ExpectQuery(selectQuery).WithArgs("alice").WillReturnError(context.Canceled)

	_, err := reg.Get(context.Background(), "alice")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, model.ErrNetwork)
}

func TestRunMigrations_UsesSeam(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.Error(t, RunMigrations(context.Background(), db))
}
