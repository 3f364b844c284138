package chart

import (
	"context"
	"sort"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"edachat/dataset"
)

func (d *Dispatcher) line(_ context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	dts := ds.DatetimeColumns()
	nums := ds.NumericColumns()
	if len(dts) == 0 || len(nums) == 0 {
		return nil, nil
	}
	tc, vc := dts[0], nums[0]

	times, values := timeSeries(tc, vc)
	if len(times) == 0 {
		return nil, errNoCompleteRows
	}

	first, last := times[0], times[len(times)-1]
	lo, hi := gochart.TimeToFloat64(first), gochart.TimeToFloat64(last)
	if lo == hi {
		pad := gochart.TimeToFloat64(first.Add(24*time.Hour)) - lo
		lo, hi = lo-pad, hi+pad
	}
	layout := timeLayout(last.Sub(first))

	title := d.t("chart.line.title", vc.Name, tc.Name)
	col := paletteColor(0)
	graph := gochart.Chart{
		Title:  title,
		Width:  d.width,
		Height: d.height,
		XAxis: gochart.XAxis{
			Name:  tc.Name,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: gochart.TimeValueFormatterWithFormat(layout),
		},
		YAxis: gochart.YAxis{Name: vc.Name, Range: paddedRange(bounds(values))},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    vc.Name,
				XValues: times,
				YValues: values,
				Style:   gochart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 2},
			},
		},
	}
	png, err := renderChart(&graph)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Title: title, PNG: png}}, nil
}

// timeSeries pairs present timestamps with present values, averages values
// that share a timestamp and orders the result by time.
func timeSeries(tc, vc *dataset.Column) ([]time.Time, []float64) {
	type acc struct {
		t     time.Time
		sum   float64
		count int
	}
	byTime := map[int64]*acc{}
	for i := 0; i < tc.Len(); i++ {
		if !tc.Valid[i] || !vc.Valid[i] {
			continue
		}
		key := tc.Times[i].UnixNano()
		a, ok := byTime[key]
		if !ok {
			a = &acc{t: tc.Times[i]}
			byTime[key] = a
		}
		a.sum += vc.Floats[i]
		a.count++
	}

	points := make([]*acc, 0, len(byTime))
	for _, a := range byTime {
		points = append(points, a)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].t.Before(points[j].t) })

	times := make([]time.Time, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.t
		values[i] = p.sum / float64(p.count)
	}
	return times, values
}

func timeLayout(span time.Duration) string {
	switch {
	case span <= 48*time.Hour:
		return "01-02 15:04"
	case span <= 2*365*24*time.Hour:
		return "2006-01-02"
	}
	return "2006-01"
}
