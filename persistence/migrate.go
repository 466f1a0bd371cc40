package persistence

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Table describes a model to create on startup together with
// the foreign keys bun cannot infer from struct tags.
type Table struct {
	Model       any
	ForeignKeys []string
}

// Migrate creates every table that does not exist yet, in order.
// Parents must be listed before the tables referencing them.
func Migrate(ctx context.Context, db bun.IDB, tables ...Table) error {
	for _, t := range tables {
		q := db.NewCreateTable().
			Model(t.Model).
			IfNotExists()

		for _, fk := range t.ForeignKeys {
			q = q.ForeignKey(fk)
		}

		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("persistence: create table %T: %w", t.Model, err)
		}
	}
	return nil
}
