package chart

import (
	"context"
	"errors"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"edachat/dataset"
)

var errNoCompleteRows = errors.New("no rows with both values present")

func (d *Dispatcher) scatter(_ context.Context, ds *dataset.Dataset, p Params) ([]Artifact, error) {
	nums := ds.NumericColumns()
	if len(nums) < 2 {
		return nil, nil
	}
	x, y := nums[0], nums[1]
	if p.Axes != nil {
		x, _ = ds.Column(p.Axes.X)
		y, _ = ds.Column(p.Axes.Y)
	}

	xs, ys := completePairs(x.Floats, y.Floats)
	if len(xs) == 0 {
		return nil, errNoCompleteRows
	}
	title := d.t("chart.scatter.title", x.Name, y.Name)
	png, err := d.pointChart(title, x.Name, y.Name, []pointGroup{{name: y.Name, xs: xs, ys: ys}})
	if err != nil {
		return nil, err
	}
	return []Artifact{{Title: title, PNG: png}}, nil
}

// pointGroup is one colored set of points.
type pointGroup struct {
	name   string
	xs, ys []float64
}

func (d *Dispatcher) pointChart(title, xName, yName string, groups []pointGroup) ([]byte, error) {
	var allX, allY []float64
	series := make([]gochart.Series, 0, len(groups))
	for i, g := range groups {
		allX = append(allX, g.xs...)
		allY = append(allY, g.ys...)
		series = append(series, gochart.ContinuousSeries{
			Name:    g.name,
			XValues: g.xs,
			YValues: g.ys,
			Style:   pointStyle(paletteColor(i)),
		})
	}
	graph := gochart.Chart{
		Title:  title,
		Width:  d.width,
		Height: d.height,
		XAxis:  gochart.XAxis{Name: xName, Range: paddedRange(bounds(allX))},
		YAxis:  gochart.YAxis{Name: yName, Range: paddedRange(bounds(allY))},
		Series: series,
	}
	if len(groups) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return renderChart(&graph)
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// completePairs keeps the positions where both values are present.
func completePairs(a, b []float64) (xs, ys []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		xs = append(xs, a[i])
		ys = append(ys, b[i])
	}
	return xs, ys
}
