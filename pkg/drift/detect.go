package drift

import (
	"context"

	"github.com/housekit/housekit/pkg/schema"
	"github.com/pkg/errors"
)

// Fetcher supplies remote table descriptions to DetectDrift. The ClickHouse
// client implements it; tests substitute in-memory fakes. All I/O, and
// therefore all suspension and timeout handling, lives behind this
// interface; the engine itself never touches the network.
type Fetcher interface {
	// Description builds the live description of a table. ok=false means
	// the table doesn't exist, which is the signal for a create
	// classification, not an error.
	Description(ctx context.Context, table string) (desc *RemoteTableDescription, ok bool, err error)

	// RowCount returns the table's current row count.
	RowCount(ctx context.Context, table string) (uint64, error)
}

// DetectDrift analyzes every local table against the live database and
// returns one complete TableAnalysis per table, in input order. Tables are
// fetched and diffed one at a time; each analysis is independent and
// side-effect-free, so cancellation is simply stopping the iteration.
//
// Example:
//
//	engine := drift.NewEngine()
//	analyses, err := engine.DetectDrift(ctx, tables, client, drift.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, a := range analyses {
//	    fmt.Printf("%s: %s\n", a.Name, a.Classification)
//	}
func (e *Engine) DetectDrift(ctx context.Context, tables []*schema.Table, fetcher Fetcher, opts Options) ([]*TableAnalysis, error) {
	analyses := make([]*TableAnalysis, 0, len(tables))

	for _, table := range tables {
		desc, ok, err := fetcher.Description(ctx, table.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to describe table %s", table.Name)
		}

		if !ok {
			analyses = append(analyses, e.Diff(table, nil, opts))
			continue
		}

		a := e.Diff(table, desc, opts)
		if rows, err := fetcher.RowCount(ctx, table.Name); err != nil {
			a.warnf("failed to count rows in %s: %v", table.Name, err)
		} else {
			a.RowCount = rows
		}
		analyses = append(analyses, a)
	}

	return analyses, nil
}
