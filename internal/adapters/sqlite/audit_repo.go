package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/example/wds/internal/ports/secondary"
)

type auditRow struct {
	ID            int64     `db:"audit_id"`
	PersonID      string    `db:"person_id"`
	BatchID       int64     `db:"batch_id"`
	ActionType    string    `db:"action_type"`
	ChangeSummary string    `db:"change_summary"`
	AppliedAt     time.Time `db:"applied_at"`
}

// AuditRepository implements secondary.AuditRepository with SQLite.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new SQLite audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append records one applied change and sets its ID.
func (r *AuditRepository) Append(ctx context.Context, entry *secondary.AuditRecord) error {
	res, err := querier(ctx, r.db).ExecContext(ctx,
		"INSERT INTO audit_timeline (person_id, batch_id, action_type, change_summary) VALUES (?, ?, ?, ?)",
		entry.PersonID, entry.BatchID, entry.ActionType, entry.ChangeSummary,
	)
	if err != nil {
		return storeError(err, "failed to write audit entry")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to read audit id")
	}
	entry.ID = id
	return nil
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, filters secondary.AuditFilters) ([]*secondary.AuditRecord, error) {
	var (
		where []string
		args  []any
	)
	if filters.PersonID != "" {
		where = append(where, "person_id = ?")
		args = append(args, filters.PersonID)
	}
	if filters.BatchID != 0 {
		where = append(where, "batch_id = ?")
		args = append(args, filters.BatchID)
	}

	query := "SELECT audit_id, person_id, batch_id, action_type, change_summary, applied_at FROM audit_timeline"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY applied_at DESC, audit_id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	var rows []auditRow
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, storeError(err, "failed to list audit entries")
	}

	records := make([]*secondary.AuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &secondary.AuditRecord{
			ID:            row.ID,
			PersonID:      row.PersonID,
			BatchID:       row.BatchID,
			ActionType:    row.ActionType,
			ChangeSummary: row.ChangeSummary,
			AppliedAt:     row.AppliedAt.Format(time.RFC3339),
		})
	}
	return records, nil
}

// CountByBatch returns the number of entries written for a batch.
func (r *AuditRepository) CountByBatch(ctx context.Context, batchID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, querier(ctx, r.db), &n,
		"SELECT COUNT(*) FROM audit_timeline WHERE batch_id = ?", batchID,
	); err != nil {
		return 0, storeError(err, "failed to count audit entries")
	}
	return n, nil
}

var _ secondary.AuditRepository = (*AuditRepository)(nil)
