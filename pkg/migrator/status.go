package migrator

import (
	"context"

	"github.com/housekit/housekit/pkg/parser"
)

type (
	// Status summarizes how much of a migration set is already reflected in
	// the live database.
	Status struct {
		Total   int // Total number of statements across all migrations
		Applied int // Statements whose effect is already present
		Pending int // Statements that still need to run

		// PendingByVersion maps migration version to the statements from
		// that migration that are not yet applied, preserving order.
		PendingByVersion map[string][]parser.Statement
	}
)

// Fully reports whether every statement is already applied.
func (s *Status) Fully() bool {
	return s.Pending == 0
}

// MigrationStatus walks every statement of every migration, in order, and
// asks the idempotency checker whether its effect is already present. It
// never executes anything.
func MigrationStatus(ctx context.Context, migrations []*Migration, lookup RemoteLookup) (*Status, error) {
	status := &Status{PendingByVersion: make(map[string][]parser.Statement)}

	for _, migration := range migrations {
		for _, stmt := range migration.Statements {
			status.Total++

			applied, err := IsApplied(ctx, stmt, lookup)
			if err != nil {
				return nil, err
			}
			if applied {
				status.Applied++
				continue
			}

			status.Pending++
			status.PendingByVersion[migration.Version] = append(status.PendingByVersion[migration.Version], stmt)
		}
	}

	return status, nil
}
