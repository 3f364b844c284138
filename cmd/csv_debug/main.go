// csv_debug prints how each column of a data file is classified, then
// copies the rows into a scratch SQLite database and classifies them again
// from the query result, so file and SQL ingestion can be compared.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"edachat/dataset"
	"edachat/dbpool"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: csv_debug <file.csv|file.xlsx|file.xls> [--dates]")
		os.Exit(1)
	}
	var opts dataset.Options
	for _, a := range os.Args[2:] {
		if a == "--dates" {
			opts.ParseDates = true
		}
	}

	ds, err := dataset.Load(os.Args[1], opts)
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n=== File: %s ===\n", ds.Name)
	describe(ds)

	dbPath := filepath.Join(os.TempDir(), "csv_debug_import.db")
	defer os.Remove(dbPath)
	m := dbpool.New(dbpool.EngineSQLite, func(s string) { fmt.Println("  " + s) })
	db, err := m.Open(dbpool.OpenOptions{Path: dbPath, MaxRetries: 1})
	if err != nil {
		fmt.Printf("Error opening sqlite: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := importRows(db, "data", ds); err != nil {
		fmt.Printf("  import error: %v\n", err)
		os.Exit(1)
	}
	back, err := dataset.Query(context.Background(), db, `SELECT * FROM "data"`, opts)
	if err != nil {
		fmt.Printf("  query error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n=== SQLite round trip ===\n")
	describe(back)

	for i, c := range ds.Columns {
		if b := back.Columns[i]; b.Kind != c.Kind {
			fmt.Printf("  MISMATCH %s: file=%s sqlite=%s\n", c.Name, c.Kind, b.Kind)
		}
	}
}

func describe(ds *dataset.Dataset) {
	fmt.Printf("  %d rows, %d cols\n", ds.Rows(), ds.NumColumns())
	for _, c := range ds.Columns {
		missing := 0
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				missing++
			}
		}
		fmt.Printf("  %-24s %-12s %-16s missing=%d sample=%q\n", c.Name, c.Kind, c.Dtype(), missing, sample(c, 3))
	}
}

func sample(c *dataset.Column, n int) []string {
	var out []string
	for i := 0; i < c.Len() && len(out) < n; i++ {
		if !c.IsMissing(i) {
			out = append(out, cell(c, i))
		}
	}
	return out
}

func cell(c *dataset.Column, i int) string {
	switch c.Kind {
	case dataset.Numeric:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case dataset.Datetime:
		return c.Times[i].Format("2006-01-02 15:04:05")
	case dataset.Boolean:
		return strconv.FormatBool(c.Bools[i])
	}
	return c.Strings[i]
}

// importRows creates a table mirroring the column kinds and inserts every
// row in batches.
func importRows(db *sql.DB, table string, ds *dataset.Dataset) error {
	d := dbpool.NewDialect(dbpool.EngineSQLite)
	defs := make([]string, len(ds.Columns))
	phs := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		typ := "TEXT"
		switch c.Kind {
		case dataset.Numeric:
			typ = "REAL"
			if c.Integer {
				typ = "INTEGER"
			}
		case dataset.Boolean:
			typ = "BOOLEAN"
		}
		defs[i] = d.QuoteIdent(c.Name) + " " + typ
		phs[i] = "?"
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(table), strings.Join(defs, ", "))); err != nil {
		return err
	}

	const maxParams = 2000
	cols := len(ds.Columns)
	batchSize := min(max(maxParams/cols, 1), 500)
	single := "(" + strings.Join(phs, ",") + ")"

	for start := 0; start < ds.Rows(); start += batchSize {
		end := min(start+batchSize, ds.Rows())
		vals := make([]any, 0, (end-start)*cols)
		rowPHs := make([]string, 0, end-start)
		for r := start; r < end; r++ {
			for _, c := range ds.Columns {
				vals = append(vals, value(c, r))
			}
			rowPHs = append(rowPHs, single)
		}
		q := fmt.Sprintf("INSERT INTO %s VALUES %s", d.QuoteIdent(table), strings.Join(rowPHs, ","))
		if _, err := db.Exec(q, vals...); err != nil {
			return fmt.Errorf("insert at row %d: %w", start+2, err)
		}
	}
	fmt.Printf("  Inserted %d rows\n", ds.Rows())
	return nil
}

func value(c *dataset.Column, i int) any {
	if c.IsMissing(i) {
		return nil
	}
	switch c.Kind {
	case dataset.Numeric:
		if c.Integer && c.Floats[i] == math.Trunc(c.Floats[i]) {
			return int64(c.Floats[i])
		}
		return c.Floats[i]
	case dataset.Datetime:
		return c.Times[i]
	case dataset.Boolean:
		return c.Bools[i]
	}
	return c.Strings[i]
}
