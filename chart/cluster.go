package chart

import (
	"context"
	"math"
	"math/rand"

	"edachat/dataset"
)

func (d *Dispatcher) cluster(_ context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	nums := ds.NumericColumns()
	if len(nums) < 2 {
		return nil, nil
	}
	points := completeRows(nums)
	k := min(maxClusters, len(points))
	if k < 2 {
		return nil, nil
	}

	labels := kmeans(points, k, d.nInit, rand.New(rand.NewSource(d.seed)))

	groups := make([]pointGroup, 0, k)
	for range k {
		groups = append(groups, pointGroup{name: d.t("chart.cluster.label", len(groups))})
	}
	for i, p := range points {
		g := &groups[labels[i]]
		g.xs = append(g.xs, p[0])
		g.ys = append(g.ys, p[1])
	}
	// Duplicate points can leave a cluster empty; go-chart rejects empty
	// series.
	nonEmpty := groups[:0]
	for _, g := range groups {
		if len(g.xs) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	x, y := nums[0], nums[1]
	title := d.t("chart.cluster.title", x.Name, y.Name)
	png, err := d.pointChart(title, x.Name, y.Name, nonEmpty)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Title: title, PNG: png}}, nil
}

// completeRows returns the rows where every column is present, as points
// in column order.
func completeRows(cols []*dataset.Column) [][]float64 {
	var points [][]float64
	rows := cols[0].Len()
outer:
	for i := 0; i < rows; i++ {
		p := make([]float64, len(cols))
		for j, c := range cols {
			v := c.Floats[i]
			if math.IsNaN(v) {
				continue outer
			}
			p[j] = v
		}
		points = append(points, p)
	}
	return points
}
