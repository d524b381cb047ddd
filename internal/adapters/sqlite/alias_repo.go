package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/wds/internal/ports/secondary"
)

// AliasRepository implements secondary.AliasRepository with SQLite.
type AliasRepository struct {
	db *sqlx.DB
}

// NewAliasRepository creates a new SQLite alias repository.
func NewAliasRepository(db *sqlx.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

// SetAlias maps alias to canonical, replacing any previous mapping.
func (r *AliasRepository) SetAlias(ctx context.Context, alias, canonical string) error {
	_, err := querier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO specialty_aliases (alias_name, canonical_name) VALUES (?, ?)
		ON CONFLICT(alias_name) DO UPDATE SET canonical_name = excluded.canonical_name`,
		alias, canonical)
	if err != nil {
		return storeError(err, "failed to set alias "+alias)
	}
	return nil
}

// ListAliases returns every alias ordered by alias name.
func (r *AliasRepository) ListAliases(ctx context.Context) ([]*secondary.AliasRecord, error) {
	var rows []struct {
		Alias     string `db:"alias_name"`
		Canonical string `db:"canonical_name"`
	}
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &rows,
		"SELECT alias_name, canonical_name FROM specialty_aliases ORDER BY alias_name",
	); err != nil {
		return nil, storeError(err, "failed to list aliases")
	}

	records := make([]*secondary.AliasRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &secondary.AliasRecord{Alias: row.Alias, Canonical: row.Canonical})
	}
	return records, nil
}

// ListCanonical returns persons with their specialty resolved through aliases.
func (r *AliasRepository) ListCanonical(ctx context.Context, filters secondary.CanonicalFilters) ([]*secondary.CanonicalRecord, error) {
	var (
		where []string
		args  []any
	)
	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		where = append(where, column+" IN (?)")
		args = append(args, values)
	}
	addIn("region_name", filters.Regions)
	addIn("workplace_name", filters.Workplaces)
	addIn("specialty_name", filters.Specialties)

	query := "SELECT person_id, specialty_name, region_name, workplace_name FROM v_workforce_base_canonical"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY person_id"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	if len(where) > 0 {
		expanded, expandedArgs, err := sqlx.In(query, args...)
		if err != nil {
			return nil, storeError(err, "failed to build registry filter")
		}
		query, args = expanded, expandedArgs
	}

	db := querier(ctx, r.db)
	var rows []struct {
		PersonID      string         `db:"person_id"`
		SpecialtyName sql.NullString `db:"specialty_name"`
		RegionName    sql.NullString `db:"region_name"`
		WorkplaceName sql.NullString `db:"workplace_name"`
	}
	if err := sqlx.SelectContext(ctx, db, &rows, db.Rebind(query), args...); err != nil {
		return nil, storeError(err, "failed to list canonical registry")
	}

	records := make([]*secondary.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &secondary.CanonicalRecord{
			PersonID:      row.PersonID,
			SpecialtyName: row.SpecialtyName.String,
			RegionName:    row.RegionName.String,
			WorkplaceName: row.WorkplaceName.String,
		})
	}
	return records, nil
}

// CountBySpecialty returns person counts per canonical specialty, largest first.
func (r *AliasRepository) CountBySpecialty(ctx context.Context) ([]*secondary.SpecialtyCountRecord, error) {
	var rows []struct {
		SpecialtyName string `db:"specialty_name"`
		Count         int    `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, querier(ctx, r.db), &rows, `
		SELECT specialty_name, COUNT(*) AS n
		FROM v_workforce_base_canonical
		WHERE specialty_name IS NOT NULL
		GROUP BY specialty_name
		ORDER BY n DESC, specialty_name`,
	); err != nil {
		return nil, storeError(err, "failed to count by specialty")
	}

	records := make([]*secondary.SpecialtyCountRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &secondary.SpecialtyCountRecord{SpecialtyName: row.SpecialtyName, Count: row.Count})
	}
	return records, nil
}

var _ secondary.AliasRepository = (*AliasRepository)(nil)
