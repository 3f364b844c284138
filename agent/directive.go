package agent

import (
	"strings"

	"edachat/chart"
)

const toolPrefix = "tool:"

// Directive is the parsed form of one raw model response.
type Directive struct {
	// Text is the response with every directive line removed.
	Text string
	// HasTool is false when the response carries no directive line.
	HasTool bool
	// Identifier is the raw text after the prefix of the selected line.
	Identifier string
	// Tool is the validated identifier; None when HasTool is false.
	Tool chart.Tool
}

// ParseDirective extracts the tool directive from raw.
//
// Lines are scanned from the end; the first line that starts with "tool:"
// after trimming selects the tool. Every such line is removed from the
// returned text, not only the selected one. Identifier matching is exact
// and case-sensitive.
func ParseDirective(raw string) Directive {
	lines := splitLines(raw)

	d := Directive{Tool: chart.None}
	for i := len(lines) - 1; i >= 0; i-- {
		if id, ok := directiveID(lines[i]); ok {
			d.HasTool = true
			d.Identifier = id
			d.Tool = chart.ParseTool(id)
			break
		}
	}
	if !d.HasTool {
		d.Text = strings.TrimSpace(raw)
		return d
	}

	kept := lines[:0]
	for _, line := range lines {
		if _, ok := directiveID(line); !ok {
			kept = append(kept, line)
		}
	}
	d.Text = strings.TrimSpace(strings.Join(kept, "\n"))
	return d
}

// Renders reports whether the directive should be dispatched.
func (d Directive) Renders() bool {
	return d.HasTool && d.Tool.Renders()
}

func directiveID(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, toolPrefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(toolPrefix):]), true
}

// splitLines splits on line breaks, accepting "\r\n" and "\r".
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
