package engine

import "context"

// TableHandle is the opaque reference to a query-engine session with
// the dataset already loaded. The engine never opens a connection or
// loads data itself; that happens once, before Run is called, via a
// concrete implementation such as queryengine.DuckDB.
type TableHandle interface {
	// TableName is substituted for every {table_name} placeholder in a
	// compiled check's SQL, typically "focus_data".
	TableName() string

	// ExecuteCheck runs sql (already the table name substituted in) and
	// returns the violation count and optional diagnostic text from its
	// single result row. errorMessage is whatever the generated SQL's
	// error_message column scans to; most generators leave it NULL (empty
	// string here), in which case the caller falls back to the rule's own
	// must_satisfy text. A non-nil err is a query-engine failure, distinct
	// from a rule violation; the caller classifies it via error extraction
	// (§4.5) before deciding whether it is a recoverable missing-column
	// FAIL or a fatal run error.
	ExecuteCheck(ctx context.Context, sql string) (violations int64, errorMessage string, err error)
}
