package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ColumnSummary holds descriptive statistics for one column. Fields that do
// not apply to the column kind are NaN or empty.
type ColumnSummary struct {
	Name    string
	Kind    Kind
	Dtype   string
	Count   int
	Missing int

	Mean, Std, Min, Q25, Median, Q75, Max float64

	Unique int
	Top    string
	Freq   int

	First, Last time.Time
}

// Summary is the per-question description of a Dataset sent to the model.
type Summary struct {
	Rows    int
	Columns []ColumnSummary
}

// Summarize computes the Summary of d. It is recomputed for every question.
func Summarize(d *Dataset) *Summary {
	s := &Summary{Rows: d.Rows(), Columns: make([]ColumnSummary, 0, d.NumColumns())}
	for _, c := range d.Columns {
		s.Columns = append(s.Columns, summarizeColumn(c))
	}
	return s
}

func summarizeColumn(c *Column) ColumnSummary {
	cs := ColumnSummary{
		Name:  c.Name,
		Kind:  c.Kind,
		Dtype: c.Dtype(),
		Mean:  math.NaN(), Std: math.NaN(), Min: math.NaN(), Q25: math.NaN(),
		Median: math.NaN(), Q75: math.NaN(), Max: math.NaN(),
	}
	for i := 0; i < c.Len(); i++ {
		if c.Valid[i] {
			cs.Count++
		} else {
			cs.Missing++
		}
	}

	switch c.Kind {
	case Numeric:
		sorted := Sorted(c.Floats)
		if len(sorted) > 0 {
			cs.Mean = Mean(sorted)
			cs.Std = Std(sorted)
			cs.Min = sorted[0]
			cs.Q25 = Quantile(sorted, 0.25)
			cs.Median = Quantile(sorted, 0.5)
			cs.Q75 = Quantile(sorted, 0.75)
			cs.Max = sorted[len(sorted)-1]
		}
	case Categorical:
		cs.Unique, cs.Top, cs.Freq = topValue(c.Strings, c.Valid)
	case Boolean:
		strs := make([]string, len(c.Bools))
		for i, b := range c.Bools {
			strs[i] = strconv.FormatBool(b)
		}
		cs.Unique, cs.Top, cs.Freq = topValue(strs, c.Valid)
	case Datetime:
		for i, t := range c.Times {
			if !c.Valid[i] {
				continue
			}
			if cs.First.IsZero() || t.Before(cs.First) {
				cs.First = t
			}
			if cs.Last.IsZero() || t.After(cs.Last) {
				cs.Last = t
			}
		}
	}
	return cs
}

// ValueCount is a distinct value with its frequency.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts counts present values, most frequent first. Ties keep first
// appearance order.
func ValueCounts(values []string, valid []bool) []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for i, v := range values {
		if !valid[i] {
			continue
		}
		if j, ok := index[v]; ok {
			counts[j].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	return counts
}

func topValue(values []string, valid []bool) (unique int, top string, freq int) {
	counts := ValueCounts(values, valid)
	if len(counts) == 0 {
		return 0, "", 0
	}
	return len(counts), counts[0].Value, counts[0].Count
}

// Stats returns the describe() entries for the column as ordered key/value
// pairs.
func (cs ColumnSummary) Stats() [][2]string {
	out := [][2]string{{"count", strconv.Itoa(cs.Count)}}
	switch cs.Kind {
	case Numeric:
		for _, kv := range []struct {
			k string
			v float64
		}{
			{"mean", cs.Mean}, {"std", cs.Std}, {"min", cs.Min}, {"25%", cs.Q25},
			{"50%", cs.Median}, {"75%", cs.Q75}, {"max", cs.Max},
		} {
			out = append(out, [2]string{kv.k, formatFloat(kv.v)})
		}
	case Categorical, Boolean:
		out = append(out,
			[2]string{"unique", strconv.Itoa(cs.Unique)},
			[2]string{"top", cs.Top},
			[2]string{"freq", strconv.Itoa(cs.Freq)},
		)
	case Datetime:
		out = append(out,
			[2]string{"first", formatTime(cs.First)},
			[2]string{"last", formatTime(cs.Last)},
		)
	}
	if cs.Missing > 0 {
		out = append(out, [2]string{"missing", strconv.Itoa(cs.Missing)})
	}
	return out
}

// String renders the summary as the text embedded in the model prompt:
// shape, dtypes, then describe() per column.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shape: (%d, %d)\n", s.Rows, len(s.Columns))
	b.WriteString("types:\n")
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "  %s: %s\n", c.Name, c.Dtype)
	}
	b.WriteString("describe:\n")
	for _, c := range s.Columns {
		parts := make([]string, 0, 10)
		for _, kv := range c.Stats() {
			parts = append(parts, kv[0]+"="+kv[1])
		}
		fmt.Fprintf(&b, "  %s: %s\n", c.Name, strings.Join(parts, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "NaT"
	}
	return t.Format("2006-01-02 15:04:05")
}

// Table returns a header and one row per column for tabular display.
func (s *Summary) Table() ([]string, [][]string) {
	header := []string{"column", "dtype", "count", "missing", "stats"}
	rows := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		var parts []string
		for _, kv := range c.Stats()[1:] {
			if kv[0] == "missing" {
				continue
			}
			parts = append(parts, kv[0]+"="+kv[1])
		}
		rows = append(rows, []string{
			c.Name, c.Dtype, strconv.Itoa(c.Count), strconv.Itoa(c.Missing), strings.Join(parts, " "),
		})
	}
	return header, rows
}
