// Package utils provides common utility functions used throughout the housekit codebase.
//
// This package contains shared utilities that are used by multiple packages to avoid
// code duplication and ensure consistent behavior across the application.
//
// The identifier utilities provide consistent handling of ClickHouse SQL identifiers,
// including proper backtick quoting for names that may contain special characters or
// reserved keywords:
//
//	// Simple identifier
//	name := utils.BacktickIdentifier("users")
//	// Result: `users`
//
//	// Qualified identifier
//	qualified := utils.BacktickIdentifier("analytics.events")
//	// Result: `analytics`.`events`
//
// The utilities are designed to be safe and idempotent - calling BacktickIdentifier
// on an already backticked identifier will not double-backtick it.
package utils
