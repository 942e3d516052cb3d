package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AlexZinkM/paylink/internal/model"
)

const uniqueViolation = "23505"

// DBTX is the subset of database/sql used by the registry.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Registry persists username records in the usernames table.
type Registry struct {
	db DBTX
}

func NewRegistry(db DBTX) *Registry {
	return &Registry{db: db}
}

// Get returns nil, nil when name is not registered.
func (r *Registry) Get(ctx context.Context, name string) (*model.UsernameRecord, error) {
	query :=
		`SELECT id, name, address, signature, registered_at FROM usernames
		 WHERE name = $1
		 `

	rec := &model.UsernameRecord{}
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&rec.ID, &rec.Name, &rec.Address, &rec.Signature, &rec.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}

	return rec, nil
}

// Create inserts rec unless the name is already present, in which case it returns model.ErrNameTaken.
// The uniqueness check is left to the database so concurrent writers cannot both succeed.
func (r *Registry) Create(ctx context.Context, rec *model.UsernameRecord) error {
	query :=
		`INSERT INTO usernames (id, name, address, signature, registered_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Address, rec.Signature, rec.RegisteredAt)
	if err != nil {
		return classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", rec.Name, model.ErrNameTaken)
	}
	return nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		if pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, model.ErrNameTaken)
		}
		return fmt.Errorf("db error: %w", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("db unavailable: %w: %w", model.ErrNetwork, err)
	}
}
