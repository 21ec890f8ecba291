// Package schema defines the code-declared table model that housekit
// reconciles the live database against: tables, columns, table options,
// skip indices, projections, and the housekit metadata envelope embedded in
// table comments.
//
// The types in this package are plain data owned by the schema loader; the
// drift engine treats them as immutable input. DDL generation lives here
// too (CreateDDL, DefinitionSQL) so that the create plan, the shadow-swap
// plan, and individual ALTER statements all render column definitions the
// same way.
package schema
