package chart

import (
	"context"
	"math"
	"sort"

	"edachat/dataset"
)

func (d *Dispatcher) heatmap(ctx context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil, nil
	}
	groups := heatmapGroups(cols, d.maxVars)

	arts := make([]Artifact, 0, len(groups))
	start := 1
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		title := d.t("chart.heatmap.title")
		if len(groups) > 1 {
			title = d.t("chart.heatmap.page", start, start+len(g)-1)
		}
		png, err := correlationPlot(title, g).render(d.width, d.height)
		if err != nil {
			return nil, err
		}
		arts = append(arts, Artifact{Title: title, PNG: png})
		start += len(g)
	}
	return arts, nil
}

// heatmapGroups returns cols unchanged as one group when it fits in
// maxVars. Otherwise columns are ordered by descending sample variance
// (undefined variance last, ties in declared order) and split into
// consecutive chunks of at most maxVars.
func heatmapGroups(cols []*dataset.Column, maxVars int) [][]*dataset.Column {
	if len(cols) <= maxVars {
		return [][]*dataset.Column{cols}
	}
	type ranked struct {
		col *dataset.Column
		v   float64
	}
	order := make([]ranked, len(cols))
	for i, c := range cols {
		order[i] = ranked{c, dataset.Variance(c.Floats)}
	}
	sort.SliceStable(order, func(i, j int) bool {
		vi, vj := order[i].v, order[j].v
		if math.IsNaN(vj) {
			return !math.IsNaN(vi)
		}
		return !math.IsNaN(vi) && vi > vj
	})

	var groups [][]*dataset.Column
	for i := 0; i < len(order); i += maxVars {
		end := min(i+maxVars, len(order))
		g := make([]*dataset.Column, 0, end-i)
		for _, r := range order[i:end] {
			g = append(g, r.col)
		}
		groups = append(groups, g)
	}
	return groups
}

func correlationPlot(title string, cols []*dataset.Column) matrixPlot {
	labels := make([]string, len(cols))
	values := make([][]float64, len(cols))
	for i, a := range cols {
		labels[i] = a.Name
		values[i] = make([]float64, len(cols))
		for j, b := range cols {
			if j < i {
				values[i][j] = values[j][i]
				continue
			}
			values[i][j] = dataset.Pearson(a.Floats, b.Floats)
		}
	}
	return matrixPlot{
		title:     title,
		rowLabels: labels,
		colLabels: labels,
		values:    values,
		cmap:      coolwarm,
		lo:        -1,
		hi:        1,
		format:    formatCorr,
	}
}
