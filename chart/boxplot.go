package chart

import (
	"context"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"edachat/dataset"
)

// boxStats are the Tukey box plot statistics of one column.
type boxStats struct {
	q1, median, q3 float64
	lowWhisker     float64
	highWhisker    float64
	outliers       []float64
	empty          bool
}

func computeBoxStats(values []float64) boxStats {
	sorted := dataset.Sorted(values)
	if len(sorted) == 0 {
		return boxStats{empty: true}
	}
	b := boxStats{
		q1:     dataset.Quantile(sorted, 0.25),
		median: dataset.Quantile(sorted, 0.5),
		q3:     dataset.Quantile(sorted, 0.75),
	}
	iqr := b.q3 - b.q1
	loFence, hiFence := b.q1-1.5*iqr, b.q3+1.5*iqr
	b.lowWhisker, b.highWhisker = b.q1, b.q3
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			b.outliers = append(b.outliers, v)
			continue
		}
		b.lowWhisker = math.Min(b.lowWhisker, v)
		b.highWhisker = math.Max(b.highWhisker, v)
	}
	return b
}

func (d *Dispatcher) boxplot(_ context.Context, ds *dataset.Dataset, _ Params) ([]Artifact, error) {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil, nil
	}
	title := d.t("chart.boxplot.title")
	png, err := d.boxplotPNG(title, cols)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Title: title, PNG: png}}, nil
}

func (d *Dispatcher) boxplotPNG(title string, cols []*dataset.Column) ([]byte, error) {
	c, err := newCanvas(d.width, d.height)
	if err != nil {
		return nil, err
	}
	c.title(title)

	stats := make([]boxStats, len(cols))
	var all []float64
	for i, col := range cols {
		stats[i] = computeBoxStats(col.Floats)
		all = append(all, col.Floats...)
	}
	rng := paddedRange(bounds(all))
	lo, hi := rng.Min, rng.Max

	const left, right, top, bottom = 70, 20, 44, 90
	plotW, plotH := d.width-left-right, d.height-top-bottom
	yOf := func(v float64) int {
		return top + plotH - int((v-lo)/(hi-lo)*float64(plotH))
	}

	for _, tick := range niceTicks(lo, hi, 6) {
		y := yOf(tick)
		c.line(left, y, left+plotW, y, gridColor, 1)
		c.text(formatTick(tick), left-6, y, 9, axisColor, alignRight)
	}
	c.strokeRect(left, top, left+plotW, top+plotH, axisColor, 1)

	slot := float64(plotW) / float64(len(cols))
	half := int(math.Max(2, slot*0.3))
	rotate := len(cols) > 6
	for i, b := range stats {
		cx := left + int(slot*(float64(i)+0.5))
		label := ellipsize(cols[i].Name, 18)
		if rotate {
			c.rotatedText(label, cx, top+plotH+6, 9, axisColor, math.Pi/4)
		} else {
			c.text(label, cx, top+plotH+14, 9, axisColor, alignCenter)
		}
		if b.empty {
			continue
		}

		col := paletteColor(i)
		c.line(cx, yOf(b.highWhisker), cx, yOf(b.q3), axisColor, 1)
		c.line(cx, yOf(b.q1), cx, yOf(b.lowWhisker), axisColor, 1)
		c.line(cx-half/2, yOf(b.highWhisker), cx+half/2, yOf(b.highWhisker), axisColor, 1)
		c.line(cx-half/2, yOf(b.lowWhisker), cx+half/2, yOf(b.lowWhisker), axisColor, 1)

		y3, y1 := yOf(b.q3), yOf(b.q1)
		if y1-y3 < 1 {
			y1 = y3 + 1
		}
		c.fillRect(cx-half, y3, cx+half, y1, col.WithAlpha(180))
		c.strokeRect(cx-half, y3, cx+half, y1, axisColor, 1)
		c.line(cx-half, yOf(b.median), cx+half, yOf(b.median), axisColor, 2)

		for _, o := range b.outliers {
			c.circle(cx, yOf(o), 3, axisColor, drawing.ColorWhite)
		}
	}
	return c.png()
}

// niceTicks returns about n round tick values inside [lo, hi].
func niceTicks(lo, hi float64, n int) []float64 {
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return nil
	}
	raw := span / float64(max(n-1, 1))
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var ticks []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
