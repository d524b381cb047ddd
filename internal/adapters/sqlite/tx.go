// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/example/wds/internal/ports/secondary"
)

type txKey struct{}

// Transactor implements secondary.Transactor by carrying a *sqlx.Tx in the context.
type Transactor struct {
	db *sqlx.DB
}

// NewTransactor creates a new SQLite transactor.
func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise. A context that already carries a transaction is
// passed through unchanged.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed (%v)", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// querier returns the transaction carried by ctx, or db when there is none.
func querier(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// storeError wraps err with msg, mapping constraint violations to
// secondary.ErrConflict and missing rows to secondary.ErrNotFound.
func storeError(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(secondary.ErrNotFound, msg)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return errors.Errorf("%s: %v: %w", msg, err, secondary.ErrConflict)
	}
	return errors.Wrap(err, msg)
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

var _ secondary.Transactor = (*Transactor)(nil)
