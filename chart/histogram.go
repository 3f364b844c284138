package chart

import (
	"context"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/stat/distuv"

	"edachat/dataset"
)

const (
	maxBins    = 50
	kdeSamples = 200
)

func (d *Dispatcher) histogram(ctx context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	var arts []Artifact
	for _, c := range ds.NumericColumns() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		title := d.t("chart.histogram.title", c.Name)
		png, err := d.histogramPNG(title, c)
		if err != nil {
			return nil, err
		}
		arts = append(arts, Artifact{Title: title, PNG: png})
	}
	return arts, nil
}

func (d *Dispatcher) histogramPNG(title string, c *dataset.Column) ([]byte, error) {
	values := dataset.Sorted(c.Floats)
	edges, counts := histogramBins(values)

	// Each bar is traced from the baseline so the filled area shows bin
	// boundaries.
	xs := make([]float64, 0, len(counts)*4)
	ys := make([]float64, 0, len(counts)*4)
	top := 0.0
	for i, n := range counts {
		xs = append(xs, edges[i], edges[i], edges[i+1], edges[i+1])
		ys = append(ys, 0, n, n, 0)
		top = max(top, n)
	}
	if top == 0 {
		top = 1
	}

	fill := paletteColor(0)
	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    c.Name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: fill,
				StrokeWidth: 1,
				FillColor:   fill.WithAlpha(110),
			},
		},
	}
	if kx, ky, ok := kdeCurve(values, edges); ok {
		series = append(series, gochart.ContinuousSeries{
			Name:    "kde",
			XValues: kx,
			YValues: ky,
			Style: gochart.Style{
				StrokeColor: drawing.Color{R: 31, G: 80, B: 140, A: 255},
				StrokeWidth: 2,
			},
		})
		for _, y := range ky {
			top = max(top, y)
		}
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  d.width,
		Height: d.height,
		XAxis: gochart.XAxis{
			Name:  c.Name,
			Range: &gochart.ContinuousRange{Min: edges[0], Max: edges[len(edges)-1]},
		},
		YAxis: gochart.YAxis{
			Name:  d.t("chart.histogram.count"),
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
		Series: series,
	}
	return renderChart(&graph)
}

// histogramBins bins ascending finite values. The bin width is the smaller
// of the Sturges and Freedman-Diaconis estimates, capped at maxBins bins.
// Empty input yields a single empty bin on [0, 1].
func histogramBins(sorted []float64) (edges, counts []float64) {
	n := len(sorted)
	if n == 0 {
		return []float64{0, 1}, []float64{0}
	}
	lo, hi := sorted[0], sorted[n-1]
	if lo == hi {
		return []float64{lo - 0.5, hi + 0.5}, []float64{float64(n)}
	}

	span := hi - lo
	width := span / (math.Log2(float64(n)) + 1)
	iqr := dataset.Quantile(sorted, 0.75) - dataset.Quantile(sorted, 0.25)
	if fd := 2 * iqr / math.Cbrt(float64(n)); fd > 0 {
		width = math.Min(width, fd)
	}
	bins := int(math.Ceil(span / width))
	bins = max(1, min(bins, maxBins))

	edges = make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + span*float64(i)/float64(bins)
	}
	edges[bins] = hi
	counts = make([]float64, bins)
	step := span / float64(bins)
	for _, v := range sorted {
		i := int((v - lo) / step)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return edges, counts
}

// kdeCurve is a Gaussian kernel density estimate with Scott's bandwidth,
// scaled to histogram counts over the bin range.
func kdeCurve(sorted, edges []float64) (xs, ys []float64, ok bool) {
	n := len(sorted)
	if n < 2 {
		return nil, nil, false
	}
	std := dataset.Std(sorted)
	if std == 0 || math.IsNaN(std) {
		return nil, nil, false
	}
	bw := std * math.Pow(float64(n), -0.2)
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	binWidth := (edges[len(edges)-1] - edges[0]) / float64(len(edges)-1)

	lo, hi := edges[0], edges[len(edges)-1]
	xs = make([]float64, kdeSamples)
	ys = make([]float64, kdeSamples)
	for i := range xs {
		x := lo + (hi-lo)*float64(i)/float64(kdeSamples-1)
		var density float64
		for _, v := range sorted {
			density += kernel.Prob(x - v)
		}
		xs[i] = x
		ys[i] = density * binWidth
	}
	return xs, ys, true
}
