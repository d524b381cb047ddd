package db

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
)

// ExpectedTables lists every table the workforce schema must provide.
var ExpectedTables = []string{
	"audit_timeline",
	"change_batches",
	"persons",
	"regions",
	"specialties",
	"specialty_aliases",
	"workforce_staging",
	"workplaces",
}

// ExpectedTriggers lists the triggers that keep audit_timeline append-only.
var ExpectedTriggers = []string{
	"trg_audit_no_delete",
	"trg_audit_no_update",
}

// MissingObjects returns the names of expected tables and triggers that are
// absent from the database, sorted.
func MissingObjects(ctx context.Context, database *sqlx.DB) ([]string, error) {
	var names []string
	if err := database.SelectContext(ctx, &names,
		"SELECT name FROM sqlite_master WHERE type IN ('table', 'trigger')"); err != nil {
		return nil, errors.Wrap(err, "failed to list schema objects")
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var missing []string
	for _, want := range append(append([]string{}, ExpectedTables...), ExpectedTriggers...) {
		if !present[want] {
			missing = append(missing, want)
		}
	}
	sort.Strings(missing)
	return missing, nil
}
