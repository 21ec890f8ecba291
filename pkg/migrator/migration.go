// Package migrator loads ordered SQL migration files and decides, per
// statement, whether a statement's effect is already present in the live
// database. The apply loop itself (confirmation, execution) lives outside
// this package; only the "is this already applied" decision belongs here.
package migrator

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/housekit/housekit/pkg/parser"
	"github.com/pkg/errors"
)

type (
	// Migration is a single migration file: a version identifier derived
	// from the filename and the ordered statements it contains.
	Migration struct {
		// Version is the migration identifier, derived from the filename.
		// Migrations are applied in lexical version order.
		Version string

		// Statements holds the individual SQL statements, split on
		// top-level semicolons, in file order.
		Statements []parser.Statement
	}
)

// LoadMigrationDir loads every .sql file from the filesystem root and
// returns the migrations sorted lexically by filename. Statements are split
// on semicolons outside of quotes and parentheses, then classified; the
// classifier accepts statements it doesn't recognize, so migration files
// may contain arbitrary SQL.
//
// Example:
//
//	migrations, err := migrator.LoadMigrationDir(os.DirFS("db/migrations"))
//	if err != nil {
//	    return err
//	}
//	for _, m := range migrations {
//	    fmt.Printf("%s: %d statements\n", m.Version, len(m.Statements))
//	}
func LoadMigrationDir(fsys fs.FS) ([]*Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read migration directory")
	}

	var migrations []*Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read migration %s", entry.Name())
		}

		migrations = append(migrations, &Migration{
			Version:    strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Statements: SplitStatements(string(data)),
		})
	}

	slices.SortFunc(migrations, func(a, b *Migration) int {
		return strings.Compare(a.Version, b.Version)
	})

	return migrations, nil
}

// SplitStatements breaks migration file content into individual classified
// statements. Splitting happens on semicolons outside quotes and
// parentheses; empty fragments and comment-only fragments are dropped.
func SplitStatements(content string) []parser.Statement {
	var statements []parser.Statement

	for _, fragment := range parser.SplitTopLevel(content, ';') {
		text := strings.TrimSpace(fragment)
		if text == "" || commentOnly(text) {
			continue
		}
		statements = append(statements, parser.Classify(text))
	}

	return statements
}

// commentOnly reports whether every non-blank line of text is a -- comment
func commentOnly(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
