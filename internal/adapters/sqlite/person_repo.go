package sqlite

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/ports/secondary"
)

// PersonRepository implements secondary.PersonRepository with SQLite.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new SQLite person repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// GetByID retrieves a person with the names of its current dimensions.
func (r *PersonRepository) GetByID(ctx context.Context, personID string) (*secondary.PersonRecord, error) {
	var (
		specialtyID, regionID, workplaceID       sql.NullInt64
		specialtyName, regionName, workplaceName sql.NullString
	)

	record := &secondary.PersonRecord{}
	err := querier(ctx, r.db).QueryRowxContext(ctx, `
		SELECT p.person_id,
			p.specialty_id, p.region_id, p.workplace_id,
			s.specialty_name, rg.region_name, w.workplace_name
		FROM persons p
		LEFT JOIN specialties s ON s.specialty_id = p.specialty_id
		LEFT JOIN regions rg ON rg.region_id = p.region_id
		LEFT JOIN workplaces w ON w.workplace_id = p.workplace_id
		WHERE p.person_id = ?`,
		personID,
	).Scan(&record.PersonID,
		&specialtyID, &regionID, &workplaceID,
		&specialtyName, &regionName, &workplaceName)
	if err != nil {
		return nil, storeError(err, "failed to get person "+personID)
	}

	record.IDs = dimension.IDs{
		Specialty: specialtyID.Int64,
		Region:    regionID.Int64,
		Workplace: workplaceID.Int64,
	}
	record.Names = dimension.Names{
		Specialty: specialtyName.String,
		Region:    regionName.String,
		Workplace: workplaceName.String,
	}

	return record, nil
}

// Exists reports whether personID is registered.
func (r *PersonRepository) Exists(ctx context.Context, personID string) (bool, error) {
	var found int
	err := querier(ctx, r.db).QueryRowxContext(ctx,
		"SELECT 1 FROM persons WHERE person_id = ?", personID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeError(err, "failed to check person")
	}
	return true, nil
}

// Create inserts a new person.
func (r *PersonRepository) Create(ctx context.Context, person *secondary.PersonRecord) error {
	_, err := querier(ctx, r.db).ExecContext(ctx,
		"INSERT INTO persons (person_id, specialty_id, region_id, workplace_id) VALUES (?, ?, ?, ?)",
		person.PersonID,
		nullableID(person.IDs.Specialty),
		nullableID(person.IDs.Region),
		nullableID(person.IDs.Workplace),
	)
	if err != nil {
		return storeError(err, "failed to create person "+person.PersonID)
	}
	return nil
}

// UpdateDimensions overwrites the dimension pointers of an existing person.
func (r *PersonRepository) UpdateDimensions(ctx context.Context, personID string, ids dimension.IDs) error {
	res, err := querier(ctx, r.db).ExecContext(ctx,
		"UPDATE persons SET specialty_id = ?, region_id = ?, workplace_id = ? WHERE person_id = ?",
		nullableID(ids.Specialty), nullableID(ids.Region), nullableID(ids.Workplace), personID,
	)
	if err != nil {
		return storeError(err, "failed to update person "+personID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(secondary.ErrNotFound, "person %s", personID)
	}
	return nil
}

// Count returns the number of registered persons.
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, querier(ctx, r.db), &n, "SELECT COUNT(*) FROM persons"); err != nil {
		return 0, storeError(err, "failed to count persons")
	}
	return n, nil
}

var _ secondary.PersonRepository = (*PersonRepository)(nil)
