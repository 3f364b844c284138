package chart

import (
	"context"
	"errors"
	"sort"

	"edachat/dataset"
)

func (d *Dispatcher) crosstab(_ context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	cats := ds.CategoricalColumns()
	if len(cats) < 2 {
		return nil, nil
	}
	a, b := cats[0], cats[1]
	rows, cols, counts := contingency(a, b)
	if len(rows) == 0 {
		return nil, errors.New("no rows with both values present")
	}

	hi := 0.0
	for _, r := range counts {
		for _, v := range r {
			hi = max(hi, v)
		}
	}
	title := d.t("chart.crosstab.title", a.Name, b.Name)
	png, err := matrixPlot{
		title:     title,
		rowLabels: rows,
		colLabels: cols,
		values:    counts,
		cmap:      blues,
		lo:        0,
		hi:        hi,
		format:    formatCount,
	}.render(d.width, d.height)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Title: title, PNG: png}}, nil
}

// contingency counts co-occurrences of a and b over rows where both are
// present. Row and column labels are sorted.
func contingency(a, b *dataset.Column) (rows, cols []string, counts [][]float64) {
	rowIdx := map[string]int{}
	colIdx := map[string]int{}
	for i := 0; i < a.Len(); i++ {
		if !a.Valid[i] || !b.Valid[i] {
			continue
		}
		rowIdx[a.Strings[i]] = 0
		colIdx[b.Strings[i]] = 0
	}
	rows = sortedKeys(rowIdx)
	cols = sortedKeys(colIdx)
	for i, k := range rows {
		rowIdx[k] = i
	}
	for j, k := range cols {
		colIdx[k] = j
	}

	counts = make([][]float64, len(rows))
	for i := range counts {
		counts[i] = make([]float64, len(cols))
	}
	for i := 0; i < a.Len(); i++ {
		if !a.Valid[i] || !b.Valid[i] {
			continue
		}
		counts[rowIdx[a.Strings[i]]][colIdx[b.Strings[i]]]++
	}
	return rows, cols, counts
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
