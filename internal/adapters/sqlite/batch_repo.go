package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/example/wds/internal/ports/secondary"
)

type batchRow struct {
	ID         int64          `db:"batch_id"`
	Name       sql.NullString `db:"batch_name"`
	SourceType string         `db:"source_type"`
	Status     string         `db:"status"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (b batchRow) toRecord() *secondary.BatchRecord {
	return &secondary.BatchRecord{
		ID:         b.ID,
		Name:       b.Name.String,
		SourceType: b.SourceType,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

// BatchRepository implements secondary.BatchRepository with SQLite.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository creates a new SQLite batch repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create persists a new batch and sets its ID.
func (r *BatchRepository) Create(ctx context.Context, batch *secondary.BatchRecord) error {
	status := batch.Status
	if status == "" {
		status = "PENDING"
	}

	res, err := querier(ctx, r.db).ExecContext(ctx,
		"INSERT INTO change_batches (batch_name, source_type, status) VALUES (?, ?, ?)",
		nullableString(batch.Name), batch.SourceType, status,
	)
	if err != nil {
		return storeError(err, "failed to create batch")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to read batch id")
	}
	batch.ID = id
	batch.Status = status
	return nil
}

// GetByID retrieves a batch.
func (r *BatchRepository) GetByID(ctx context.Context, batchID int64) (*secondary.BatchRecord, error) {
	var row batchRow
	err := sqlx.GetContext(ctx, querier(ctx, r.db), &row,
		"SELECT batch_id, batch_name, source_type, status, created_at FROM change_batches WHERE batch_id = ?",
		batchID)
	if err != nil {
		return nil, storeError(err, "failed to get batch")
	}
	return row.toRecord(), nil
}

// List retrieves batches matching the given filters, newest first.
func (r *BatchRepository) List(ctx context.Context, filters secondary.BatchFilters) ([]*secondary.BatchRecord, error) {
	query := "SELECT batch_id, batch_name, source_type, status, created_at FROM change_batches"
	var args []any
	if filters.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY created_at DESC, batch_id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	var rows []batchRow
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, storeError(err, "failed to list batches")
	}

	records := make([]*secondary.BatchRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

// ListIDsByStatus returns ids of batches in status, oldest first.
func (r *BatchRepository) ListIDsByStatus(ctx context.Context, status string) ([]int64, error) {
	var ids []int64
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &ids,
		"SELECT batch_id FROM change_batches WHERE status = ? ORDER BY created_at, batch_id",
		status,
	); err != nil {
		return nil, storeError(err, "failed to list batch ids")
	}
	return ids, nil
}

// UpdateStatus sets a batch's status.
func (r *BatchRepository) UpdateStatus(ctx context.Context, batchID int64, status string) error {
	res, err := querier(ctx, r.db).ExecContext(ctx,
		"UPDATE change_batches SET status = ? WHERE batch_id = ?", status, batchID)
	if err != nil {
		return storeError(err, "failed to update batch status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(secondary.ErrNotFound, "batch %d", batchID)
	}
	return nil
}

var _ secondary.BatchRepository = (*BatchRepository)(nil)
