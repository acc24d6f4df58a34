// export_test.go exports private functions for white-box testing.
package logger

// ExportErrorFormatting exports the private error formatting helpers for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// ErrorEntry aliases the private entry type for test construction.
type ErrorEntry = errorEntry
