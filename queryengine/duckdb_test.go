package queryengine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finops-validate/focuscheck/queryengine"
)

func openLoaded(t *testing.T, csv string) *queryengine.DuckDB {
	t.Helper()
	ctx := context.Background()

	db, err := queryengine.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.LoadTable(ctx, strings.NewReader(csv), queryengine.FormatCSV))
	return db
}

func TestDuckDB_TableName(t *testing.T) {
	db := openLoaded(t, "BilledCost\n1.0\n")
	require.Equal(t, "focus_data", db.TableName())
}

func TestDuckDB_LoadTableAndCountRows(t *testing.T) {
	db := openLoaded(t, "BilledCost\n1.0\n2.0\n3.0\n")

	violations, errorMessage, err := db.ExecuteCheck(context.Background(),
		"SELECT COUNT(*) AS violations, CAST(NULL AS VARCHAR) AS error_message FROM focus_data WHERE BilledCost IS NULL")
	require.NoError(t, err)
	require.Equal(t, int64(0), violations)
	require.Empty(t, errorMessage)
}

func TestDuckDB_ExecuteCheckFindsViolations(t *testing.T) {
	db := openLoaded(t, "BilledCost\n1.0\n\n3.0\n")

	violations, errorMessage, err := db.ExecuteCheck(context.Background(),
		"SELECT COUNT(*) AS violations, CASE WHEN COUNT(*) > 0 THEN 'BilledCost contains NULL values' ELSE NULL END AS error_message FROM focus_data WHERE BilledCost IS NULL")
	require.NoError(t, err)
	require.Equal(t, int64(1), violations)
	require.Equal(t, "BilledCost contains NULL values", errorMessage)
}

func TestDuckDB_LoadTableReplacesPriorContent(t *testing.T) {
	ctx := context.Background()
	db, err := queryengine.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.LoadTable(ctx, strings.NewReader("BilledCost\n1.0\n"), queryengine.FormatCSV))
	require.NoError(t, db.LoadTable(ctx, strings.NewReader("BilledCost\n1.0\n2.0\n"), queryengine.FormatCSV))

	violations, _, err := db.ExecuteCheck(ctx,
		"SELECT COUNT(*) AS violations, CAST(NULL AS VARCHAR) AS error_message FROM focus_data")
	require.NoError(t, err)
	require.Equal(t, int64(2), violations)
}

func TestDuckDB_ExecuteCheckMissingColumnErrors(t *testing.T) {
	db := openLoaded(t, "BilledCost\n1.0\n")

	_, _, err := db.ExecuteCheck(context.Background(),
		"SELECT COUNT(*) AS violations, CAST(NULL AS VARCHAR) AS error_message FROM focus_data WHERE RegionId IS NULL")
	require.Error(t, err)
}
