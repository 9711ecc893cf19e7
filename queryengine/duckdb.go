package queryengine

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/marcboeker/go-duckdb"
)

// Format selects which DuckDB table function LoadTable uses to sniff
// and read the incoming dataset. Format sniffing itself is the caller's
// job (per the module's own scope boundary); DuckDB is told which
// reader to use, not asked to guess.
type Format int

const (
	// FormatCSV reads the dataset with DuckDB's read_csv_auto, which
	// infers column types and delimiter from the file content.
	FormatCSV Format = iota
	// FormatParquet reads the dataset with DuckDB's read_parquet.
	FormatParquet
)

// TableName is the fixed name every loaded dataset is registered under,
// matching every generated check's {table_name} placeholder target.
const TableName = "focus_data"

// DuckDB is an engine.TableHandle backed by an in-process, in-memory
// DuckDB database. It is safe for concurrent ExecuteCheck calls: DuckDB
// itself serializes query execution per connection, and database/sql's
// connection pool hands out distinct connections to concurrent callers.
type DuckDB struct {
	db *sql.DB
}

// Open starts a fresh in-memory DuckDB database. The caller must call
// Close when done; no state is ever persisted to disk.
func Open(ctx context.Context) (*DuckDB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("queryengine: opening duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("queryengine: connecting to duckdb: %w", err)
	}
	return &DuckDB{db: db}, nil
}

// Close releases the underlying database connection.
func (d *DuckDB) Close() error {
	return d.db.Close()
}

// TableName returns the fixed registered table name.
func (d *DuckDB) TableName() string {
	return TableName
}

// LoadTable materializes r's content (CSV or Parquet bytes, per format)
// into the focus_data table, replacing any table already loaded.
//
// DuckDB's read_csv_auto/read_parquet table functions read from a file
// path rather than an open stream, so r is first spooled to a temporary
// file; the file is removed once DuckDB has materialized the data into
// its own in-memory table, so no trace of the dataset remains on disk
// afterward.
func (d *DuckDB) LoadTable(ctx context.Context, r io.Reader, format Format) error {
	tmp, err := os.CreateTemp("", "focuscheck-dataset-*")
	if err != nil {
		return fmt.Errorf("queryengine: creating spool file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("queryengine: spooling dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("queryengine: closing spool file: %w", err)
	}

	var tableFn string
	switch format {
	case FormatParquet:
		tableFn = "read_parquet"
	default:
		tableFn = "read_csv_auto"
	}

	if _, err := d.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", TableName)); err != nil {
		return fmt.Errorf("queryengine: dropping existing table: %w", err)
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s AS SELECT * FROM %s(?)",
		TableName, tableFn,
	)
	if _, err := d.db.ExecContext(ctx, stmt, tmp.Name()); err != nil {
		return fmt.Errorf("queryengine: loading dataset into %s: %w", TableName, err)
	}
	return nil
}

// ExecuteCheck runs sql, which must already have {table_name} substituted
// in, and returns the single result row's violation count and optional
// error_message text. Any failure to execute or scan the query is
// returned as-is; engine classifies it against the missing-column
// patterns (§4.5) before deciding whether it is a recoverable FAIL or a
// fatal run error.
func (d *DuckDB) ExecuteCheck(ctx context.Context, query string) (int64, string, error) {
	row := d.db.QueryRowContext(ctx, query)

	var violations int64
	var errorMessage sql.NullString
	if err := row.Scan(&violations, &errorMessage); err != nil {
		return 0, "", fmt.Errorf("queryengine: executing check: %w", err)
	}
	return violations, errorMessage.String, nil
}
