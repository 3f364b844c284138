package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Options controls ingestion.
type Options struct {
	// Name is the dataset name; readers default it to the file name.
	Name string
	// ParseDates enables datetime inference for text columns. When false,
	// date-like text stays categorical.
	ParseDates bool
	// Delimiter for CSV input; defaults to ','.
	Delimiter rune
	// Location applied to naive timestamps. Defaults to UTC.
	Location *time.Location
}

// missingTokens are the cell values read as missing.
var missingTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissingToken reports whether a raw cell reads as missing. The cell is
// matched as is; " NA" is text.
func IsMissingToken(s string) bool {
	return missingTokens[s]
}

type dateLayout struct {
	layout string
	zoned  bool
}

var dateLayouts = []dateLayout{
	{time.RFC3339Nano, true},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
	{"2006/01/02", false},
	{"2006/01/02 15:04:05", false},
	{"01/02/2006", false},
	{"01/02/2006 15:04:05", false},
}

var boolValues = map[string]bool{
	"True": true, "true": true, "TRUE": true,
	"False": false, "false": false, "FALSE": false,
}

// Infer classifies raw text cells into a typed column. Rules, in order:
// every present cell numeric → Numeric; every cell a boolean literal and
// nothing missing → Boolean; ParseDates and every present cell parses
// as a timestamp, either all zoned or all naive → Datetime; otherwise
// Categorical. A
// column with no present cells is a numeric all-NaN column.
func Infer(name string, raw []string, opts Options) *Column {
	valid := make([]bool, len(raw))
	present := 0
	for i, s := range raw {
		valid[i] = !IsMissingToken(s)
		if valid[i] {
			present++
		}
	}

	if c, ok := inferNumeric(name, raw, valid); ok {
		return c
	}
	if present == len(raw) {
		if c, ok := inferBoolean(name, raw); ok {
			return c
		}
	}
	if opts.ParseDates {
		if c, ok := inferDatetime(name, raw, valid, opts.Location); ok {
			return c
		}
	}

	strs := make([]string, len(raw))
	for i, s := range raw {
		if valid[i] {
			strs[i] = s
		}
	}
	return &Column{Name: name, Kind: Categorical, Strings: strs, Valid: valid}
}

func inferNumeric(name string, raw []string, valid []bool) (*Column, bool) {
	floats := make([]float64, len(raw))
	integer := true
	var nans []int
	for i, s := range raw {
		if !valid[i] {
			floats[i] = math.NaN()
			integer = false
			continue
		}
		t := strings.TrimSpace(s)
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			floats[i] = float64(n)
			continue
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, false
		}
		if math.IsNaN(f) {
			nans = append(nans, i)
		}
		floats[i] = f
		integer = false
	}
	for _, i := range nans {
		valid[i] = false
	}
	return &Column{Name: name, Kind: Numeric, Floats: floats, Valid: valid, Integer: integer}, true
}

func inferBoolean(name string, raw []string) (*Column, bool) {
	bools := make([]bool, len(raw))
	valid := make([]bool, len(raw))
	for i, s := range raw {
		b, ok := boolValues[strings.TrimSpace(s)]
		if !ok {
			return nil, false
		}
		bools[i] = b
		valid[i] = true
	}
	return &Column{Name: name, Kind: Boolean, Bools: bools, Valid: valid}, len(raw) > 0
}

func inferDatetime(name string, raw []string, valid []bool, loc *time.Location) (*Column, bool) {
	if loc == nil {
		loc = time.UTC
	}
	times := make([]time.Time, len(raw))
	zoned, naive, present := false, false, false
	for i, s := range raw {
		if !valid[i] {
			continue
		}
		present = true
		t, z, ok := parseTime(strings.TrimSpace(s), loc)
		if !ok {
			return nil, false
		}
		times[i] = t
		if z {
			zoned = true
		} else {
			naive = true
		}
	}
	// Mixed offsets and naive values stay text.
	if !present || (zoned && naive) {
		return nil, false
	}
	return &Column{Name: name, Kind: Datetime, Times: times, Valid: valid, Zoned: zoned}, true
}

func parseTime(s string, loc *time.Location) (time.Time, bool, bool) {
	for _, l := range dateLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, s); err == nil {
				return t, true, true
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}
