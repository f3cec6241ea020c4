package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/fermi-lat/classifier/classifyerr"
)

// DuckDB loads CSV or Parquet training files through an in-process
// DuckDB connection, applying the subset selection in SQL rather than
// in Go. This is the accelerated path for large tables: DuckDB does
// the file scan and row numbering, but the result is still fully
// materialized into a Rows slice (and from there into a table.Table)
// before training starts, matching the engine's "training data fits
// in memory" assumption.
type DuckDB struct {
	db *sql.DB
}

// NewDuckDB opens an in-process, file-less DuckDB database for
// ad-hoc querying of CSV/Parquet inputs.
func NewDuckDB() (*DuckDB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, classifyerr.IO(err, "opening duckdb connection")
	}
	return &DuckDB{db: db}, nil
}

// Close releases the underlying DuckDB connection.
func (d *DuckDB) Close() error {
	return d.db.Close()
}

// Load scans path (CSV or Parquet, chosen by extension) via DuckDB's
// read_csv_auto/read_parquet, numbers the rows, and returns only
// those selected by subset. schema.Names is populated from the
// scanned column names when empty.
func (d *DuckDB) Load(ctx context.Context, path string, schema *Schema, subset Subset) (Rows, error) {
	scanFn := "read_csv_auto"
	if strings.HasSuffix(strings.ToLower(path), ".parquet") {
		scanFn = "read_parquet"
	}

	cols, err := d.columns(ctx, scanFn, path)
	if err != nil {
		return nil, err
	}
	if len(schema.Names) == 0 {
		schema.Names = cols
	}

	var where string
	switch subset {
	case Even:
		where = "WHERE (rn - 1) % 2 = 0"
	case Odd:
		where = "WHERE (rn - 1) % 2 = 1"
	case Random:
		where = "WHERE random() < 0.5"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM (SELECT *, row_number() OVER () AS rn FROM %s(?)) %s ORDER BY rn",
		quotedColumnList(cols), scanFn, where,
	)

	rows, err := d.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, classifyerr.IO(err, "querying %s via duckdb", path)
	}
	defer rows.Close()

	var result Rows
	dest := make([]any, len(cols))
	scanBuf := make([]float64, len(cols))
	for i := range dest {
		dest[i] = &scanBuf[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, classifyerr.IO(err, "scanning row from %s", path)
		}
		row := make([]float64, len(cols))
		copy(row, scanBuf)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyerr.IO(err, "iterating rows from %s", path)
	}
	return result, nil
}

func (d *DuckDB) columns(ctx context.Context, scanFn, path string) ([]string, error) {
	query := fmt.Sprintf("SELECT * FROM %s(?) LIMIT 0", scanFn)
	rows, err := d.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, classifyerr.IO(err, "describing columns of %s via duckdb", path)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, classifyerr.IO(err, "reading column names of %s", path)
	}
	return cols, nil
}

func quotedColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}
