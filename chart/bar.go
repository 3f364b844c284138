package chart

import (
	"context"

	gochart "github.com/wcharczuk/go-chart/v2"

	"edachat/dataset"
)

const barSpacing = 10

func (d *Dispatcher) bar(_ context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	cats := ds.CategoricalColumns()
	if len(cats) == 0 {
		return nil, nil
	}
	c := cats[0]
	counts := dataset.ValueCounts(c.Strings, c.Valid)
	if len(counts) == 0 {
		return nil, nil
	}
	if len(counts) > topCategories {
		counts = counts[:topCategories]
	}

	bars := make([]gochart.Value, len(counts))
	top := 0.0
	for i, vc := range counts {
		col := paletteColor(i)
		bars[i] = gochart.Value{
			Label: ellipsize(vc.Value, 14),
			Value: float64(vc.Count),
			Style: gochart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		}
		top = max(top, float64(vc.Count))
	}

	title := d.t("chart.bar.title", c.Name)
	graph := gochart.BarChart{
		Title:      title,
		Width:      d.width,
		Height:     d.height,
		BarWidth:   max(4, (d.width-160)/len(bars)-barSpacing),
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis: gochart.YAxis{
			Name:  d.t("chart.bar.frequency"),
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	png, err := renderChart(&graph)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Title: title, PNG: png}}, nil
}
