package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Query runs a query and builds a Dataset from its result set.
func Query(ctx context.Context, db *sql.DB, query string, opts Options) (*Dataset, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()
	return FromRows(rows, opts)
}

// FromRows drains rows into a Dataset. Driver-typed values keep their type;
// text and byte values go through the same inference as CSV cells.
func FromRows(rows *sql.Rows, opts Options) (*Dataset, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrEmpty
	}

	cells := make([][]any, len(names))
	dest := make([]any, len(names))
	for rows.Next() {
		vals := make([]any, len(names))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range vals {
			cells[i] = append(cells[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	header := dedupeHeader(names)
	cols := make([]*Column, len(header))
	for i, name := range header {
		cols[i] = columnFromValues(name, cells[i], opts)
	}
	return New(opts.Name, cols...)
}

// columnFromValues keeps numeric, time and bool driver values typed when
// every present value agrees; anything else is rendered to text and inferred.
func columnFromValues(name string, values []any, opts Options) *Column {
	var nums, times, bools, present int
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case int64, int32, int, float64, float32:
			nums++
		case time.Time:
			times++
		case bool:
			bools++
		}
		present++
	}

	valid := make([]bool, len(values))
	switch {
	case present > 0 && nums == present:
		floats := make([]float64, len(values))
		integer := present == len(values)
		for i, v := range values {
			f, ok := toFloat(v)
			floats[i] = f
			valid[i] = ok
			if ok && f != math.Trunc(f) {
				integer = false
			}
			if _, isFloat := v.(float64); isFloat {
				integer = false
			}
		}
		return &Column{Name: name, Kind: Numeric, Floats: floats, Valid: valid, Integer: integer}
	case present > 0 && times == present:
		ts := make([]time.Time, len(values))
		for i, v := range values {
			if t, ok := v.(time.Time); ok {
				ts[i], valid[i] = t, true
			}
		}
		return &Column{Name: name, Kind: Datetime, Times: ts, Valid: valid}
	case present > 0 && bools == present && present == len(values):
		bs := make([]bool, len(values))
		for i, v := range values {
			bs[i], valid[i] = v.(bool), true
		}
		return &Column{Name: name, Kind: Boolean, Bools: bs, Valid: valid}
	}

	raw := make([]string, len(values))
	for i, v := range values {
		raw[i] = toText(v)
	}
	return Infer(name, raw, opts)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	}
	return math.NaN(), false
}

func toText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return toUTF8(string(s))
	case time.Time:
		return s.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
