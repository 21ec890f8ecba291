package migrator

import (
	"context"

	"github.com/housekit/housekit/pkg/normalize"
	"github.com/housekit/housekit/pkg/parser"
	"github.com/pkg/errors"
)

// RemoteLookup answers the point questions the idempotency checker needs
// about the live database. The ClickHouse client implements it; tests use
// in-memory fakes.
type RemoteLookup interface {
	// TableExists reports whether a table exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// ColumnType returns a column's raw type text. ok=false means the
	// table or column doesn't exist.
	ColumnType(ctx context.Context, table, column string) (typeText string, ok bool, err error)

	// TableComment returns a table's comment. ok=false means the table
	// doesn't exist.
	TableComment(ctx context.Context, table string) (comment string, ok bool, err error)
}

// IsApplied decides whether a classified statement's effect is already
// present remotely, letting the migration runner skip statements instead of
// re-executing them.
//
// The rules per statement kind:
//   - CREATE TABLE: applied iff the table exists (IF NOT EXISTS semantics;
//     the definition is not re-checked)
//   - ADD COLUMN: applied iff the column is present (type not re-checked)
//   - MODIFY COLUMN: applied iff the remote type, normalized and
//     canonicalized, equals the target type
//   - MODIFY COMMENT: applied iff the normalized comments are equal
//   - everything else (DROP TABLE, generic ALTER, unclassified): never
//     considered applied; the caller is responsible for not re-running
//     non-idempotent statements
func IsApplied(ctx context.Context, stmt parser.Statement, lookup RemoteLookup) (bool, error) {
	switch stmt.Kind {
	case parser.KindCreateTable:
		exists, err := lookup.TableExists(ctx, stmt.Table)
		return exists, errors.Wrapf(err, "failed to check table %s", stmt.Table)

	case parser.KindAddColumn:
		_, ok, err := lookup.ColumnType(ctx, stmt.Table, stmt.Column)
		return ok, errors.Wrapf(err, "failed to check column %s.%s", stmt.Table, stmt.Column)

	case parser.KindModifyColumn:
		remoteType, ok, err := lookup.ColumnType(ctx, stmt.Table, stmt.Column)
		if err != nil {
			return false, errors.Wrapf(err, "failed to check column %s.%s", stmt.Table, stmt.Column)
		}
		if !ok {
			return false, nil
		}
		return normalize.CanonicalType(normalize.Type(remoteType)) ==
			normalize.CanonicalType(normalize.Type(stmt.ColumnType)), nil

	case parser.KindModifyComment:
		comment, ok, err := lookup.TableComment(ctx, stmt.Table)
		if err != nil {
			return false, errors.Wrapf(err, "failed to read comment on %s", stmt.Table)
		}
		if !ok {
			return false, nil
		}
		return normalize.Comment(comment) == normalize.Comment(stmt.Comment), nil

	default:
		return false, nil
	}
}
