package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/ports/secondary"
)

// dimensionQueries holds the statements for one dimension table.
type dimensionQueries struct {
	selectByName string
	insert       string
	list         string
}

func newDimensionQueries(table, idCol, nameCol string) dimensionQueries {
	return dimensionQueries{
		selectByName: fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ? COLLATE NOCASE", idCol, nameCol, table, nameCol),
		insert:       fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, nameCol),
		list:         fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s", idCol, nameCol, table, nameCol),
	}
}

// dimensionTables is the closed set of dimension tables, keyed by kind.
var dimensionTables = map[dimension.Kind]dimensionQueries{
	dimension.KindSpecialty: newDimensionQueries("specialties", "specialty_id", "specialty_name"),
	dimension.KindRegion:    newDimensionQueries("regions", "region_id", "region_name"),
	dimension.KindWorkplace: newDimensionQueries("workplaces", "workplace_id", "workplace_name"),
}

// DimensionRepository implements secondary.DimensionRepository with SQLite.
type DimensionRepository struct {
	db *sqlx.DB
}

// NewDimensionRepository creates a new SQLite dimension repository.
func NewDimensionRepository(db *sqlx.DB) *DimensionRepository {
	return &DimensionRepository{db: db}
}

func queriesFor(kind dimension.Kind) (dimensionQueries, error) {
	q, ok := dimensionTables[kind]
	if !ok {
		return dimensionQueries{}, errors.Errorf("unknown dimension kind %q", kind)
	}
	return q, nil
}

// GetOrCreate returns the dimension named name, inserting it when absent.
func (r *DimensionRepository) GetOrCreate(ctx context.Context, kind dimension.Kind, name string) (*secondary.DimensionRecord, error) {
	q, err := queriesFor(kind)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.Errorf("missing value for %s_name", kind)
	}

	db := querier(ctx, r.db)
	record := &secondary.DimensionRecord{}
	err = db.QueryRowxContext(ctx, q.selectByName, name).Scan(&record.ID, &record.Name)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeError(err, fmt.Sprintf("failed to look up %s", kind))
	}

	res, err := db.ExecContext(ctx, q.insert, name)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to create %s %q", kind, name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read new %s id", kind)
	}

	return &secondary.DimensionRecord{ID: id, Name: name}, nil
}

// List returns every dimension of kind ordered by name.
func (r *DimensionRepository) List(ctx context.Context, kind dimension.Kind) ([]*secondary.DimensionRecord, error) {
	q, err := queriesFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := querier(ctx, r.db).QueryxContext(ctx, q.list)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to list %s", kind))
	}
	defer rows.Close()

	var records []*secondary.DimensionRecord
	for rows.Next() {
		record := &secondary.DimensionRecord{}
		if err := rows.Scan(&record.ID, &record.Name); err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", kind)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

var _ secondary.DimensionRepository = (*DimensionRepository)(nil)
