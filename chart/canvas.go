package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	axisColor  = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	gridColor  = drawing.Color{R: 224, G: 224, B: 224, A: 255}
	titleColor = drawing.Color{R: 34, G: 34, B: 34, A: 255}
)

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
	alignRight
)

// canvas wraps a raw go-chart renderer for the charts the high-level chart
// types cannot express (heatmaps, box plots).
type canvas struct {
	r    gochart.Renderer
	w, h int
}

func newCanvas(w, h int) (*canvas, error) {
	r, err := gochart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	r.SetFont(font)
	c := &canvas{r: r, w: w, h: h}
	c.fillRect(0, 0, w, h, drawing.ColorWhite)
	return c, nil
}

func (c *canvas) fillRect(x0, y0, x1, y1 int, fill drawing.Color) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(fill)
	c.r.SetStrokeWidth(0)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.Close()
	c.r.Fill()
}

func (c *canvas) strokeRect(x0, y0, x1, y1 int, stroke drawing.Color, width float64) {
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.Close()
	c.r.Stroke()
}

func (c *canvas) line(x0, y0, x1, y1 int, stroke drawing.Color, width float64) {
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
}

func (c *canvas) circle(x, y int, radius float64, stroke, fill drawing.Color) {
	c.r.SetStrokeColor(stroke)
	c.r.SetFillColor(fill)
	c.r.SetStrokeWidth(1)
	c.r.Circle(radius, x, y)
	c.r.FillStroke()
}

// text draws s with its vertical middle at y.
func (c *canvas) text(s string, x, y int, size float64, color drawing.Color, align textAlign) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	box := c.r.MeasureText(s)
	switch align {
	case alignCenter:
		x -= box.Width() / 2
	case alignRight:
		x -= box.Width()
	}
	c.r.Text(s, x, y+box.Height()/2)
}

// rotatedText draws s rotated by angle radians, anchored at its end so
// long labels hang below an axis.
func (c *canvas) rotatedText(s string, x, y int, size float64, color drawing.Color, angle float64) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	box := c.r.MeasureText(s)
	dx := int(math.Cos(angle) * float64(box.Width()))
	dy := int(math.Sin(angle) * float64(box.Width()))
	c.r.SetTextRotation(angle)
	c.r.Text(s, x-dx, y-dy+box.Height())
	c.r.ClearTextRotation()
}

func (c *canvas) textWidth(s string, size float64) int {
	c.r.SetFontSize(size)
	return c.r.MeasureText(s).Width()
}

func (c *canvas) title(s string) {
	c.text(s, c.w/2, 20, 14, titleColor, alignCenter)
}

func (c *canvas) png() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// renderChart renders any go-chart chart type to PNG bytes.
func renderChart(r interface {
	Render(gochart.RendererProvider, io.Writer) error
}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// paddedRange returns a continuous range around [lo, hi] that is never
// empty.
func paddedRange(lo, hi float64) *gochart.ContinuousRange {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = 0, 1
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
		return &gochart.ContinuousRange{Min: lo - span/2, Max: hi + span/2}
	}
	return &gochart.ContinuousRange{Min: lo - span*0.05, Max: hi + span*0.05}
}

func bounds(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if math.IsInf(lo, 1) {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}

// ellipsize shortens s to at most n runes.
func ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
