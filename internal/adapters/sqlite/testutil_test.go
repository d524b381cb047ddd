// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// setupTestDB runs the embedded production migrations so tests always run
// against the authoritative schema. Do not hardcode CREATE TABLE statements
// in test files; use setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/example/wds/internal/db"
)

// setupTestDB creates a migrated database in a temp directory. A file is used
// rather than :memory: so every pooled connection sees the same data.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to open test db")

	_, err = db.Migrate(context.Background(), testDB)
	require.NoError(t, err, "failed to migrate test db")

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedDimension inserts a dimension row and returns its ID.
func seedDimension(t *testing.T, database *sqlx.DB, table, column, name string) int64 {
	t.Helper()
	res, err := database.Exec("INSERT INTO "+table+" ("+column+") VALUES (?)", name)
	require.NoError(t, err, "failed to seed %s", table)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedPerson inserts a person with freshly created dimensions.
func seedPerson(t *testing.T, database *sqlx.DB, personID, specialty, region, workplace string) {
	t.Helper()
	sID := seedDimension(t, database, "specialties", "specialty_name", specialty)
	rID := seedDimension(t, database, "regions", "region_name", region)
	wID := seedDimension(t, database, "workplaces", "workplace_name", workplace)
	_, err := database.Exec(
		"INSERT INTO persons (person_id, specialty_id, region_id, workplace_id) VALUES (?, ?, ?, ?)",
		personID, sID, rID, wID)
	require.NoError(t, err, "failed to seed person")
}

// seedBatch inserts a batch and returns its ID.
func seedBatch(t *testing.T, database *sqlx.DB, name, status string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO change_batches (batch_name, source_type, status) VALUES (?, 'MANUAL', ?)", name, status)
	require.NoError(t, err, "failed to seed batch")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedStaging inserts a staging row and returns its ID. batchID of zero leaves it unassigned.
func seedStaging(t *testing.T, database *sqlx.DB, batchID int64, personID, action, status string) int64 {
	t.Helper()
	var batch any
	if batchID != 0 {
		batch = batchID
	}
	var person any
	if personID != "" {
		person = personID
	}
	res, err := database.Exec(`
		INSERT INTO workforce_staging
			(person_id, action_type, specialty_name, region_name, workplace_name, status, batch_id)
		VALUES (?, ?, 'Cardiology', 'Seoul', 'Hospital A', ?, ?)`,
		person, action, status, batch)
	require.NoError(t, err, "failed to seed staging row")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
