package chart

import (
	"context"
	"fmt"

	"edachat/dataset"
	"edachat/i18n"
)

const (
	defaultWidth          = 800
	defaultHeight         = 600
	defaultHeatmapMaxVars = 10
	defaultClusterInit    = 10
	maxClusters           = 3
	topCategories         = 10
)

// Dispatcher renders the artifacts for a tool. It holds no per-dataset
// state and is safe for concurrent use.
type Dispatcher struct {
	width, height int
	maxVars       int
	seed          int64
	nInit         int
	tr            *i18n.Translator
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSize sets the artifact size in pixels.
func WithSize(width, height int) Option {
	return func(d *Dispatcher) {
		if width > 0 && height > 0 {
			d.width, d.height = width, height
		}
	}
}

// WithHeatmapMaxVars sets how many variables a single heatmap shows.
func WithHeatmapMaxVars(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxVars = n
		}
	}
}

// WithClusterSeed fixes the k-means random seed.
func WithClusterSeed(seed int64) Option {
	return func(d *Dispatcher) { d.seed = seed }
}

// WithClusterInit sets the number of k-means restarts.
func WithClusterInit(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.nInit = n
		}
	}
}

// WithTranslator sets the translator used for titles and axis labels.
func WithTranslator(tr *i18n.Translator) Option {
	return func(d *Dispatcher) {
		if tr != nil {
			d.tr = tr
		}
	}
}

// NewDispatcher builds a Dispatcher with defaults overridden by opts.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		width:   defaultWidth,
		height:  defaultHeight,
		maxVars: defaultHeatmapMaxVars,
		nInit:   defaultClusterInit,
		tr:      i18n.New(i18n.English),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type renderFunc func(ctx context.Context, ds *dataset.Dataset, p Params) ([]Artifact, error)

// Dispatch renders tool over ds. Tools whose column requirements are not met,
// None and Unrecognized yield no artifacts and no error. A failed render
// returns an error and no artifacts.
func (d *Dispatcher) Dispatch(ctx context.Context, ds *dataset.Dataset, tool Tool, p Params) ([]Artifact, error) {
	if ds == nil || !tool.Renders() {
		return nil, nil
	}
	if err := p.Validate(ds, tool); err != nil {
		return nil, err
	}

	var render renderFunc
	switch tool {
	case Histogram:
		render = d.histogram
	case Boxplot:
		render = d.boxplot
	case Scatter:
		render = d.scatter
	case Heatmap:
		render = d.heatmap
	case Bar:
		render = d.bar
	case Line:
		render = d.line
	case Cluster:
		render = d.cluster
	case Crosstab:
		render = d.crosstab
	default:
		return nil, nil
	}

	arts, err := render(ctx, ds, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tool, err)
	}
	for i := range arts {
		arts[i].Tool = tool
	}
	return arts, nil
}

func (d *Dispatcher) t(key string, args ...interface{}) string {
	return d.tr.T(key, args...)
}
