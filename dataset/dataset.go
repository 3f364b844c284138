// Package dataset holds the tabular data a session answers questions about:
// ordered, named columns classified as numeric, categorical or datetime.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrEmpty is returned when a source has no header or no columns.
	ErrEmpty = errors.New("dataset: no columns")
	// ErrUnsupportedFormat is returned by Load for unknown file types.
	ErrUnsupportedFormat = errors.New("dataset: unsupported format")
)

// Kind classifies a column the way a dataframe library does after type
// inference.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Datetime
	// Boolean columns are neither numeric nor text and never satisfy a
	// chart precondition.
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Datetime:
		return "datetime"
	case Boolean:
		return "bool"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Column is a single named column. Only the slice matching Kind is
// populated; Valid marks non-missing cells for every kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Times   []time.Time
	Bools   []bool
	Valid   []bool

	// Integer is set for numeric columns whose values are all integral with
	// nothing missing.
	Integer bool
	// Zoned is set for datetime columns carrying a UTC offset.
	Zoned bool
}

// Len returns the number of cells.
func (c *Column) Len() int {
	return len(c.Valid)
}

// IsMissing reports whether row i is missing.
func (c *Column) IsMissing(i int) bool {
	return !c.Valid[i]
}

// Dtype returns the dataframe dtype label used in summaries.
func (c *Column) Dtype() string {
	switch c.Kind {
	case Numeric:
		if c.Integer {
			return "int64"
		}
		return "float64"
	case Datetime:
		if c.Zoned {
			return "datetime64[ns, tz]"
		}
		return "datetime64[ns]"
	case Boolean:
		return "bool"
	}
	return "object"
}

// NewNumeric builds a numeric column. NaN marks a missing value.
func NewNumeric(name string, values ...float64) *Column {
	c := &Column{Name: name, Kind: Numeric, Floats: values, Valid: make([]bool, len(values)), Integer: true}
	for i, v := range values {
		c.Valid[i] = !math.IsNaN(v)
		if !c.Valid[i] || v != math.Trunc(v) || math.IsInf(v, 0) {
			c.Integer = false
		}
	}
	return c
}

// NewCategorical builds a text column. The empty string marks a missing value.
func NewCategorical(name string, values ...string) *Column {
	c := &Column{Name: name, Kind: Categorical, Strings: values, Valid: make([]bool, len(values))}
	for i, v := range values {
		c.Valid[i] = v != ""
	}
	return c
}

// NewDatetime builds a datetime column. The zero time marks a missing value.
func NewDatetime(name string, values ...time.Time) *Column {
	c := &Column{Name: name, Kind: Datetime, Times: values, Valid: make([]bool, len(values))}
	for i, v := range values {
		c.Valid[i] = !v.IsZero()
	}
	return c
}

// NewBoolean builds a boolean column with no missing values.
func NewBoolean(name string, values ...bool) *Column {
	c := &Column{Name: name, Kind: Boolean, Bools: values, Valid: make([]bool, len(values))}
	for i := range values {
		c.Valid[i] = true
	}
	return c
}

// Dataset is an ordered set of equally long columns. A Dataset is never
// mutated after construction; loading new data builds a new one.
type Dataset struct {
	Name    string
	Columns []*Column
	rows    int
}

// New validates the columns and builds a Dataset.
func New(name string, cols ...*Column) (*Dataset, error) {
	if len(cols) == 0 {
		return nil, ErrEmpty
	}
	rows := cols[0].Len()
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Len() != rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}
	return &Dataset{Name: name, Columns: cols, rows: rows}, nil
}

// MustNew is New that panics on error. Intended for tests and fixtures.
func MustNew(name string, cols ...*Column) *Dataset {
	d, err := New(name, cols...)
	if err != nil {
		panic(err)
	}
	return d
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	return d.rows
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int {
	return len(d.Columns)
}

// Column looks a column up by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnsOf returns the columns of the given kind in declared order.
func (d *Dataset) ColumnsOf(kind Kind) []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// NumericColumns returns numeric columns in declared order.
func (d *Dataset) NumericColumns() []*Column { return d.ColumnsOf(Numeric) }

// CategoricalColumns returns categorical columns in declared order.
func (d *Dataset) CategoricalColumns() []*Column { return d.ColumnsOf(Categorical) }

// DatetimeColumns returns datetime columns in declared order.
func (d *Dataset) DatetimeColumns() []*Column { return d.ColumnsOf(Datetime) }
