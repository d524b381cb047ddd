package db

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
)

// SeedFixtures populates an empty database with a small demo registry:
// dimensions, a handful of persons, one specialty alias and a pending batch
// with staged changes ready for review.
func SeedFixtures(ctx context.Context, database *sqlx.DB) error {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "seed: begin")
	}
	defer func() { _ = tx.Rollback() }()

	dims := []struct{ table, column, name string }{
		{"specialties", "specialty_name", "Cardiology"},
		{"specialties", "specialty_name", "Neurology"},
		{"specialties", "specialty_name", "Pediatrics"},
		{"specialties", "specialty_name", "Cardio"},
		{"regions", "region_name", "Seoul"},
		{"regions", "region_name", "Busan"},
		{"workplaces", "workplace_name", "Hospital A"},
		{"workplaces", "workplace_name", "Hospital B"},
		{"workplaces", "workplace_name", "Clinic C"},
	}
	for _, d := range dims {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+d.table+" ("+d.column+") VALUES (?)", d.name,
		); err != nil {
			return errors.Wrapf(err, "seed %s", d.table)
		}
	}

	persons := []struct{ id, specialty, region, workplace string }{
		{"P001", "Cardiology", "Seoul", "Hospital A"},
		{"P002", "Neurology", "Busan", "Hospital B"},
		{"P003", "Cardio", "Seoul", "Clinic C"},
	}
	for _, p := range persons {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO persons (person_id, specialty_id, region_id, workplace_id)
			VALUES (?,
				(SELECT specialty_id FROM specialties WHERE specialty_name = ?),
				(SELECT region_id FROM regions WHERE region_name = ?),
				(SELECT workplace_id FROM workplaces WHERE workplace_name = ?))`,
			p.id, p.specialty, p.region, p.workplace,
		); err != nil {
			return errors.Wrap(err, "seed persons")
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO specialty_aliases (alias_name, canonical_name) VALUES (?, ?)",
		"Cardio", "Cardiology",
	); err != nil {
		return errors.Wrap(err, "seed specialty_aliases")
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO change_batches (batch_name, source_type, status) VALUES (?, 'MANUAL', 'PENDING')",
		"SEED_DEMO",
	)
	if err != nil {
		return errors.Wrap(err, "seed change_batches")
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "seed change_batches")
	}

	staged := []struct{ personID, action, specialty, region, workplace, note string }{
		{"P004", "NEW", "Pediatrics", "Busan", "Clinic C", "new hire"},
		{"P001", "UPDATE", "Cardiology", "Busan", "Hospital B", "transfer"},
	}
	for _, s := range staged {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO workforce_staging
				(person_id, action_type, specialty_name, region_name, workplace_name, source_note, status, batch_id)
			VALUES (?, ?, ?, ?, ?, ?, 'PENDING', ?)`,
			s.personID, s.action, s.specialty, s.region, s.workplace, s.note, batchID,
		); err != nil {
			return errors.Wrap(err, "seed workforce_staging")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "seed: commit")
	}
	return nil
}
