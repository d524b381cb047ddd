package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/example/wds/internal/ports/secondary"
)

const stagingColumns = `staging_id, person_id, action_type, specialty_name, region_name,
	workplace_name, source_note, status, batch_id, created_at, processed_at`

type stagingRow struct {
	ID            int64          `db:"staging_id"`
	PersonID      sql.NullString `db:"person_id"`
	ActionType    string         `db:"action_type"`
	SpecialtyName string         `db:"specialty_name"`
	RegionName    string         `db:"region_name"`
	WorkplaceName string         `db:"workplace_name"`
	SourceNote    sql.NullString `db:"source_note"`
	Status        string         `db:"status"`
	BatchID       sql.NullInt64  `db:"batch_id"`
	CreatedAt     time.Time      `db:"created_at"`
	ProcessedAt   sql.NullTime   `db:"processed_at"`
}

func (s stagingRow) toRecord() *secondary.StagingRecord {
	return &secondary.StagingRecord{
		ID:            s.ID,
		PersonID:      s.PersonID.String,
		ActionType:    s.ActionType,
		SpecialtyName: s.SpecialtyName,
		RegionName:    s.RegionName,
		WorkplaceName: s.WorkplaceName,
		SourceNote:    s.SourceNote.String,
		Status:        s.Status,
		BatchID:       s.BatchID.Int64,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		ProcessedAt:   formatTime(s.ProcessedAt),
	}
}

// StagingRepository implements secondary.StagingRepository with SQLite.
type StagingRepository struct {
	db *sqlx.DB
}

// NewStagingRepository creates a new SQLite staging repository.
func NewStagingRepository(db *sqlx.DB) *StagingRepository {
	return &StagingRepository{db: db}
}

// Create persists a new staging row and sets its ID.
func (r *StagingRepository) Create(ctx context.Context, row *secondary.StagingRecord) error {
	status := row.Status
	if status == "" {
		status = "PENDING"
	}

	res, err := querier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO workforce_staging
			(person_id, action_type, specialty_name, region_name, workplace_name, source_note, status, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(row.PersonID), row.ActionType,
		row.SpecialtyName, row.RegionName, row.WorkplaceName,
		nullableString(row.SourceNote), status, nullableID(row.BatchID),
	)
	if err != nil {
		return storeError(err, "failed to create staging row")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to read staging id")
	}
	row.ID = id
	row.Status = status
	return nil
}

// GetByID retrieves a staging row.
func (r *StagingRepository) GetByID(ctx context.Context, stagingID int64) (*secondary.StagingRecord, error) {
	var row stagingRow
	err := sqlx.GetContext(ctx, querier(ctx, r.db), &row,
		"SELECT "+stagingColumns+" FROM workforce_staging WHERE staging_id = ?", stagingID)
	if err != nil {
		return nil, storeError(err, "failed to get staging row")
	}
	return row.toRecord(), nil
}

// List retrieves staging rows matching the given filters, oldest first.
func (r *StagingRepository) List(ctx context.Context, filters secondary.StagingFilters) ([]*secondary.StagingRecord, error) {
	var (
		where []string
		args  []any
	)
	if filters.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filters.Status)
	}
	if filters.BatchID != 0 {
		where = append(where, "batch_id = ?")
		args = append(args, filters.BatchID)
	}

	query := "SELECT " + stagingColumns + " FROM workforce_staging"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY staging_id"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.selectRows(ctx, query, args...)
}

// ListApproved returns the APPROVED rows of a batch in insertion order.
func (r *StagingRepository) ListApproved(ctx context.Context, batchID int64) ([]*secondary.StagingRecord, error) {
	return r.selectRows(ctx,
		"SELECT "+stagingColumns+" FROM workforce_staging WHERE batch_id = ? AND status = 'APPROVED' ORDER BY staging_id",
		batchID)
}

func (r *StagingRepository) selectRows(ctx context.Context, query string, args ...any) ([]*secondary.StagingRecord, error) {
	var rows []stagingRow
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, storeError(err, "failed to list staging rows")
	}

	records := make([]*secondary.StagingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

// MarkApplied sets a row APPLIED and stamps processed_at.
func (r *StagingRepository) MarkApplied(ctx context.Context, stagingID int64) error {
	return r.exec(ctx, "failed to mark staging row applied",
		"UPDATE workforce_staging SET status = 'APPLIED', processed_at = CURRENT_TIMESTAMP WHERE staging_id = ?",
		stagingID)
}

// MarkRejected sets a row REJECTED, replaces its source note and stamps processed_at.
func (r *StagingRepository) MarkRejected(ctx context.Context, stagingID int64, sourceNote string) error {
	return r.exec(ctx, "failed to mark staging row rejected",
		"UPDATE workforce_staging SET status = 'REJECTED', source_note = ?, processed_at = CURRENT_TIMESTAMP WHERE staging_id = ?",
		nullableString(sourceNote), stagingID)
}

// UpdateStatus sets a row's review status.
func (r *StagingRepository) UpdateStatus(ctx context.Context, stagingID int64, status string) error {
	return r.exec(ctx, "failed to update staging status",
		"UPDATE workforce_staging SET status = ? WHERE staging_id = ?",
		status, stagingID)
}

func (r *StagingRepository) exec(ctx context.Context, msg, query string, args ...any) error {
	res, err := querier(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return storeError(err, msg)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(secondary.ErrNotFound, msg)
	}
	return nil
}

// UpdateUnprocessedStatus sets the review status of every unconsumed row in the batch.
func (r *StagingRepository) UpdateUnprocessedStatus(ctx context.Context, batchID int64, status string) (int64, error) {
	res, err := querier(ctx, r.db).ExecContext(ctx, `
		UPDATE workforce_staging SET status = ?
		WHERE batch_id = ? AND processed_at IS NULL AND status <> 'APPLIED'`,
		status, batchID)
	if err != nil {
		return 0, storeError(err, "failed to update batch rows")
	}
	return res.RowsAffected()
}

// CountByStatus returns the number of rows per status for a batch.
func (r *StagingRepository) CountByStatus(ctx context.Context, batchID int64) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &rows,
		"SELECT status, COUNT(*) AS n FROM workforce_staging WHERE batch_id = ? GROUP BY status", batchID,
	); err != nil {
		return nil, storeError(err, "failed to count staging rows")
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

// CountProcessed returns how many rows of the batch apply has consumed.
func (r *StagingRepository) CountProcessed(ctx context.Context, batchID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, querier(ctx, r.db), &n,
		"SELECT COUNT(*) FROM workforce_staging WHERE batch_id = ? AND (processed_at IS NOT NULL OR status = 'APPLIED')",
		batchID,
	); err != nil {
		return 0, storeError(err, "failed to count processed rows")
	}
	return n, nil
}

// AssignOrphanedApproved moves APPROVED rows without a batch into batchID.
func (r *StagingRepository) AssignOrphanedApproved(ctx context.Context, batchID int64) (int64, error) {
	res, err := querier(ctx, r.db).ExecContext(ctx,
		"UPDATE workforce_staging SET batch_id = ? WHERE status = 'APPROVED' AND batch_id IS NULL",
		batchID)
	if err != nil {
		return 0, storeError(err, "failed to assign orphaned approvals")
	}
	return res.RowsAffected()
}

// CountOrphanedApproved returns the number of APPROVED rows without a batch.
func (r *StagingRepository) CountOrphanedApproved(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, querier(ctx, r.db), &n,
		"SELECT COUNT(*) FROM workforce_staging WHERE status = 'APPROVED' AND batch_id IS NULL",
	); err != nil {
		return 0, storeError(err, "failed to count orphaned approvals")
	}
	return n, nil
}

var _ secondary.StagingRepository = (*StagingRepository)(nil)
