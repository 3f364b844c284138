package chart

import (
	"errors"
	"fmt"

	"edachat/dataset"
)

// ErrInvalidParams is returned when explicit parameters do not fit the
// dataset.
var ErrInvalidParams = errors.New("chart: invalid parameters")

// AxisPair names explicit scatter axes.
type AxisPair struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// Params are the optional per-tool parameters. The zero value selects every
// default.
type Params struct {
	Axes *AxisPair
}

// WithAxes returns Params selecting x and y, or the zero Params when either
// name is blank.
func WithAxes(x, y string) Params {
	if x == "" || y == "" {
		return Params{}
	}
	return Params{Axes: &AxisPair{X: x, Y: y}}
}

// Validate checks the parameters used by tool against d.
func (p Params) Validate(d *dataset.Dataset, tool Tool) error {
	if tool != Scatter || p.Axes == nil {
		return nil
	}
	for _, name := range []string{p.Axes.X, p.Axes.Y} {
		c, ok := d.Column(name)
		if !ok {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidParams, name)
		}
		if c.Kind != dataset.Numeric {
			return fmt.Errorf("%w: column %q is %s, not numeric", ErrInvalidParams, name, c.Kind)
		}
	}
	return nil
}
