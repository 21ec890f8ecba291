package drift

import "fmt"

const (
	// ClassificationCreate means the table has no remote counterpart and the
	// plan holds a single CREATE TABLE statement.
	ClassificationCreate Classification = "create"
	// ClassificationModify means drift was found and at least one of Plan or
	// ShadowPlan is non-empty.
	ClassificationModify Classification = "modify"
	// ClassificationNoChanges means local and remote already agree. Warnings
	// may still be present (e.g. a remote-only index).
	ClassificationNoChanges Classification = "no_changes"
)

type (
	// Classification is the overall verdict of a table analysis
	Classification string

	// TableAnalysis is the complete result of diffing one local table
	// definition against its remote counterpart. It is built once and
	// returned complete; the engine never hands out a partially-populated
	// analysis.
	TableAnalysis struct {
		// Name is the table name
		Name string

		// Classification is the overall verdict
		Classification Classification

		// Adds lists columns that only exist locally
		Adds []string

		// Modifies lists columns whose type, default, or comment changed
		Modifies []string

		// Drops lists remote columns with no local counterpart. No DROP
		// COLUMN statement is ever planned for them; they only make the
		// diff destructive.
		Drops []string

		// OptionChanges describes table-option, index/projection, and
		// metadata drift in human-readable form
		OptionChanges []string

		// DestructiveReasons lists every finding that risks data loss or
		// requires a rebuild. A human reviewer sees these before anything
		// is executed.
		DestructiveReasons []string

		// Warnings lists non-fatal findings: unparseable fragments,
		// ambiguous renames, remote-only objects
		Warnings []string

		// Plan is the in-place statement sequence, always safe to execute
		// in order
		Plan []string

		// ShadowPlan, when non-nil, is a complete alternative to Plan:
		// create shadow table, copy compatible data, atomic rename. The
		// caller executes exactly one of the two.
		ShadowPlan []string

		// RowCount is the remote table's row count at analysis time
		RowCount uint64

		// ExternallyManaged mirrors the local definition's flag so callers
		// can skip plan execution for tables owned elsewhere
		ExternallyManaged bool
	}
)

// HasChanges reports whether the analysis found anything to do.
func (a *TableAnalysis) HasChanges() bool {
	return a.Classification != ClassificationNoChanges
}

// Destructive reports whether any finding requires review before execution.
func (a *TableAnalysis) Destructive() bool {
	return len(a.DestructiveReasons) > 0
}

func (a *TableAnalysis) warnf(format string, args ...any) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

func (a *TableAnalysis) destructive(format string, args ...any) {
	a.DestructiveReasons = append(a.DestructiveReasons, fmt.Sprintf(format, args...))
}

func (a *TableAnalysis) optionChange(format string, args ...any) {
	a.OptionChanges = append(a.OptionChanges, fmt.Sprintf(format, args...))
}
