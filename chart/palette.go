package chart

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// categorical is the tab10 palette.
var categorical = []drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
	{R: 188, G: 189, B: 34, A: 255},
	{R: 23, G: 190, B: 207, A: 255},
}

func paletteColor(i int) drawing.Color {
	return categorical[i%len(categorical)]
}

type colorStop struct {
	at float64
	c  drawing.Color
}

// colormap interpolates linearly between stops on [0, 1].
type colormap []colorStop

var (
	coolwarm = colormap{
		{0, drawing.Color{R: 59, G: 76, B: 192, A: 255}},
		{0.5, drawing.Color{R: 221, G: 221, B: 221, A: 255}},
		{1, drawing.Color{R: 180, G: 4, B: 38, A: 255}},
	}
	blues = colormap{
		{0, drawing.Color{R: 247, G: 251, B: 255, A: 255}},
		{0.5, drawing.Color{R: 107, G: 174, B: 214, A: 255}},
		{1, drawing.Color{R: 8, G: 48, B: 107, A: 255}},
	}
	missingCell = drawing.Color{R: 255, G: 255, B: 255, A: 255}
)

func (m colormap) at(t float64) drawing.Color {
	if math.IsNaN(t) {
		return missingCell
	}
	t = math.Max(0, math.Min(1, t))
	for i := 1; i < len(m); i++ {
		if t <= m[i].at {
			lo, hi := m[i-1], m[i]
			f := (t - lo.at) / (hi.at - lo.at)
			return drawing.Color{
				R: lerp(lo.c.R, hi.c.R, f),
				G: lerp(lo.c.G, hi.c.G, f),
				B: lerp(lo.c.B, hi.c.B, f),
				A: 255,
			}
		}
	}
	return m[len(m)-1].c
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// textOn picks black or white text for legibility on bg.
func textOn(bg drawing.Color) drawing.Color {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma < 140 {
		return drawing.ColorWhite
	}
	return drawing.ColorBlack
}
