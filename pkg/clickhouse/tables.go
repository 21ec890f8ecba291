package clickhouse

import (
	"context"

	"github.com/housekit/housekit/pkg/drift"
	"github.com/housekit/housekit/pkg/utils"
	"github.com/pkg/errors"
)

// TableNames returns the names of all non-system tables in the current
// database, excluding ClickHouse's internal materialized-view backing
// tables.
func (c *Client) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM system.tables
		WHERE database = currentDatabase()
		  AND is_temporary = 0
		  AND name NOT LIKE '.inner%'
		ORDER BY name
	`

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan table name")
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// TableExists reports whether a table exists in the current database.
func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	query := `
		SELECT count()
		FROM system.tables
		WHERE database = currentDatabase() AND name = ?
	`

	var count uint64
	if err := c.conn.QueryRow(ctx, query, table).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "failed to check existence of %s", table)
	}

	return count > 0, nil
}

// DescribeTable returns the column listing for a table from system.columns,
// in declaration order.
func (c *Client) DescribeTable(ctx context.Context, table string) ([]drift.ColumnRow, error) {
	query := `
		SELECT name, type, default_kind, default_expression, comment
		FROM system.columns
		WHERE database = currentDatabase() AND table = ?
		ORDER BY position
	`

	rows, err := c.conn.Query(ctx, query, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to describe table %s", table)
	}
	defer rows.Close()

	var columns []drift.ColumnRow
	for rows.Next() {
		var row drift.ColumnRow
		if err := rows.Scan(&row.Name, &row.Type, &row.DefaultKind, &row.DefaultExpression, &row.Comment); err != nil {
			return nil, errors.Wrapf(err, "failed to scan column of %s", table)
		}
		columns = append(columns, row)
	}

	return columns, rows.Err()
}

// ShowCreateTable returns the table's CREATE statement text.
func (c *Client) ShowCreateTable(ctx context.Context, table string) (string, error) {
	var ddl string
	query := "SHOW CREATE TABLE " + utils.BacktickIdentifier(table)
	if err := c.conn.QueryRow(ctx, query).Scan(&ddl); err != nil {
		return "", errors.Wrapf(err, "failed to fetch CREATE statement for %s", table)
	}
	return ddl, nil
}

// TableComment returns the table's comment. ok=false means the table does
// not exist.
func (c *Client) TableComment(ctx context.Context, table string) (string, bool, error) {
	query := `
		SELECT comment
		FROM system.tables
		WHERE database = currentDatabase() AND name = ?
	`

	rows, err := c.conn.Query(ctx, query, table)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read comment on %s", table)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}

	var comment string
	if err := rows.Scan(&comment); err != nil {
		return "", false, errors.Wrapf(err, "failed to scan comment on %s", table)
	}
	return comment, true, nil
}

// ColumnType returns a column's raw type text. ok=false means the table or
// column doesn't exist.
func (c *Client) ColumnType(ctx context.Context, table, column string) (string, bool, error) {
	query := `
		SELECT type
		FROM system.columns
		WHERE database = currentDatabase() AND table = ? AND name = ?
	`

	rows, err := c.conn.Query(ctx, query, table, column)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read type of %s.%s", table, column)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}

	var typeText string
	if err := rows.Scan(&typeText); err != nil {
		return "", false, errors.Wrapf(err, "failed to scan type of %s.%s", table, column)
	}
	return typeText, true, nil
}

// RowCount returns the table's current row count.
func (c *Client) RowCount(ctx context.Context, table string) (uint64, error) {
	var count uint64
	query := "SELECT count() FROM " + utils.BacktickIdentifier(table)
	if err := c.conn.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "failed to count rows in %s", table)
	}
	return count, nil
}

// Description builds the drift engine's view of a live table from the
// column listing, the CREATE statement text, and the table comment.
// ok=false means the table doesn't exist (the create signal, not an error).
// A failing SHOW CREATE on an existing table degrades to a description
// without options rather than an error.
func (c *Client) Description(ctx context.Context, table string) (*drift.RemoteTableDescription, bool, error) {
	exists, err := c.TableExists(ctx, table)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	columns, err := c.DescribeTable(ctx, table)
	if err != nil {
		return nil, false, err
	}

	createDDL, err := c.ShowCreateTable(ctx, table)
	if err != nil {
		createDDL = ""
	}

	comment, ok, err := c.TableComment(ctx, table)
	if err != nil {
		return nil, false, err
	}

	var commentPtr *string
	if ok && comment != "" {
		commentPtr = &comment
	}

	return drift.BuildDescription(columns, createDDL, commentPtr), true, nil
}
