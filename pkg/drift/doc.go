// Package drift implements housekit's core: detecting schema drift between
// code-declared table definitions and the live ClickHouse schema, and
// planning the DDL to reconcile them.
//
// The engine is a pure function module: every Diff call receives a fully
// materialized RemoteTableDescription and returns a complete TableAnalysis
// with no I/O, no console output, and no shared state between calls. The
// analysis carries two plans: the in-place statement sequence and, for any
// non-purely-additive drift, a complete shadow-swap alternative
// (create-copy-rename). The caller chooses exactly one to execute.
//
// Nothing in this package executes SQL. Every destructive or ambiguous
// finding is surfaced in DestructiveReasons and Warnings so a human can
// veto the plan before an external executor runs it.
package drift
