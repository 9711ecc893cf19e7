// Package queryengine provides the one concrete engine.TableHandle this
// module ships: an in-process DuckDB database reached through the
// standard database/sql interface.
//
// DuckDB is the embedded columnar analytics engine a FOCUS dataset
// validator actually targets in practice: it reads CSV and Parquet
// directly off disk or from an io.Reader-backed temp file via table
// functions, needs no server process, and defaults to an in-memory
// database that leaves no state behind a run.
package queryengine
