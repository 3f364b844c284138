// Package chart renders the visualizations a model can request for a
// dataset. Every renderer produces PNG artifacts through go-chart.
package chart

import "fmt"

// Tool is the validated form of a model tool identifier.
type Tool int

const (
	None Tool = iota
	Histogram
	Boxplot
	Scatter
	Heatmap
	Bar
	Line
	Cluster
	Crosstab
	// Unrecognized is any identifier outside the closed set. It behaves
	// exactly like None.
	Unrecognized
)

var toolNames = map[Tool]string{
	None:      "none",
	Histogram: "histogram",
	Boxplot:   "boxplot",
	Scatter:   "scatter",
	Heatmap:   "heatmap",
	Bar:       "bar",
	Line:      "line",
	Cluster:   "cluster",
	Crosstab:  "crosstab",
}

var toolsByName = func() map[string]Tool {
	m := make(map[string]Tool, len(toolNames))
	for t, name := range toolNames {
		m[name] = t
	}
	return m
}()

// ParseTool maps an identifier to a Tool. Matching is exact and
// case-sensitive; anything else is Unrecognized.
func ParseTool(id string) Tool {
	if t, ok := toolsByName[id]; ok {
		return t
	}
	return Unrecognized
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	if t == Unrecognized {
		return "unrecognized"
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// Renders reports whether dispatching t can produce artifacts.
func (t Tool) Renders() bool {
	return t > None && t < Unrecognized
}

// Tools lists the chart tools in prompt order.
func Tools() []Tool {
	return []Tool{Histogram, Boxplot, Scatter, Heatmap, Bar, Line, Cluster, Crosstab}
}
