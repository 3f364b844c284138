package chart

import (
	"math"
	"strconv"
)

// matrixPlot draws an annotated color grid with a vertical color bar. It
// backs both the correlation heatmap and the crosstab.
type matrixPlot struct {
	title     string
	rowLabels []string
	colLabels []string
	values    [][]float64
	cmap      colormap
	lo, hi    float64
	format    func(float64) string
}

const (
	matrixLabelRunes = 18
	matrixLabelSize  = 9.0
)

func (m matrixPlot) render(w, h int) ([]byte, error) {
	c, err := newCanvas(w, h)
	if err != nil {
		return nil, err
	}
	c.title(m.title)

	rowLabel := make([]string, len(m.rowLabels))
	left := 0
	for i, l := range m.rowLabels {
		rowLabel[i] = ellipsize(l, matrixLabelRunes)
		left = max(left, c.textWidth(rowLabel[i], matrixLabelSize))
	}
	colLabel := make([]string, len(m.colLabels))
	bottom := 0
	for j, l := range m.colLabels {
		colLabel[j] = ellipsize(l, matrixLabelRunes)
		bottom = max(bottom, c.textWidth(colLabel[j], matrixLabelSize))
	}
	left = min(left+16, w/4)
	bottom = min(int(float64(bottom)*math.Sin(math.Pi/4))+24, h/4)
	const top, barWidth, barGap, barLabels = 44, 16, 14, 44

	plotW := w - left - barWidth - barGap - barLabels - 10
	plotH := h - top - bottom
	nr, nc := len(m.rowLabels), len(m.colLabels)
	cell := min(plotW/max(nc, 1), plotH/max(nr, 1))
	if cell < 1 {
		cell = 1
	}
	gridW, gridH := cell*nc, cell*nr
	x0, y0 := left, top

	annotate := cell >= 18
	annotSize := math.Min(10, float64(cell)/3.2)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			v := m.values[i][j]
			fill := m.cmap.at(m.normalize(v))
			cx, cy := x0+j*cell, y0+i*cell
			c.fillRect(cx, cy, cx+cell, cy+cell, fill)
			if annotate && !math.IsNaN(v) {
				c.text(m.format(v), cx+cell/2, cy+cell/2, annotSize, textOn(fill), alignCenter)
			}
		}
	}
	c.strokeRect(x0, y0, x0+gridW, y0+gridH, axisColor, 1)

	for i, l := range rowLabel {
		c.text(l, x0-6, y0+i*cell+cell/2, matrixLabelSize, axisColor, alignRight)
	}
	for j, l := range colLabel {
		c.rotatedText(l, x0+j*cell+cell/2, y0+gridH+6, matrixLabelSize, axisColor, math.Pi/4)
	}

	m.colorBar(c, x0+gridW+barGap, y0, barWidth, gridH)
	return c.png()
}

func (m matrixPlot) normalize(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if m.hi == m.lo {
		return 0.5
	}
	return (v - m.lo) / (m.hi - m.lo)
}

func (m matrixPlot) colorBar(c *canvas, x, y, width, height int) {
	if height <= 0 {
		return
	}
	for py := 0; py < height; py++ {
		t := 1 - float64(py)/float64(max(height-1, 1))
		c.fillRect(x, y+py, x+width, y+py+1, m.cmap.at(t))
	}
	c.strokeRect(x, y, x+width, y+height, axisColor, 1)
	for k := 0; k <= 4; k++ {
		t := float64(k) / 4
		v := m.lo + (m.hi-m.lo)*t
		py := y + height - int(t*float64(height))
		c.line(x+width, py, x+width+4, py, axisColor, 1)
		c.text(m.format(v), x+width+6, py, 8, axisColor, alignLeft)
	}
}

func formatCorr(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

