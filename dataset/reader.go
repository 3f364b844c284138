package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadCSV parses a CSV stream with a header row into a Dataset.
// Input that is not valid UTF-8 is decoded as Windows-1252.
func ReadCSV(r io.Reader, opts Options) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode csv: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return FromRecords(records, opts)
}

// FromRecords builds a Dataset from a header row followed by data rows.
// Short rows are padded with missing cells.
func FromRecords(records [][]string, opts Options) (*Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrEmpty
	}
	header := dedupeHeader(records[0])

	body := records[1:]
	for i, rec := range body {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("dataset: row %d has %d fields, header has %d", i+2, len(rec), len(header))
		}
	}

	cols := make([]*Column, len(header))
	for j, name := range header {
		raw := make([]string, len(body))
		for i, rec := range body {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		cols[j] = Infer(name, raw, opts)
	}
	return New(opts.Name, cols...)
}

// Load reads a file, choosing the reader by extension.
func Load(path string, opts Options) (*Dataset, error) {
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(path, f, opts)
}

// Read parses rs with the reader matching the extension of name. Uploads
// without an extension are read as CSV.
func Read(name string, rs io.ReadSeeker, opts Options) (*Dataset, error) {
	if opts.Name == "" {
		opts.Name = filepath.Base(name)
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt", "":
		return ReadCSV(rs, opts)
	case ".tsv":
		opts.Delimiter = '\t'
		return ReadCSV(rs, opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(rs, opts)
	case ".xls":
		return ReadXLS(rs, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// dedupeHeader names blank headers "Unnamed: i" and suffixes repeats
// with ".1", ".2", ...
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// toUTF8 decodes a cell that is not valid UTF-8 as Windows-1252.
func toUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "�")
	}
	return decoded
}
