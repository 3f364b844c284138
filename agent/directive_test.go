package agent

import (
	"strings"
	"testing"
	"testing/quick"

	"edachat/chart"
)

func TestParseDirective(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		text    string
		hasTool bool
		id      string
		tool    chart.Tool
	}{
		{"trailing directive", "Here is the distribution.\ntool:histogram", "Here is the distribution.", true, "histogram", chart.Histogram},
		{"none", "No chart needed.\ntool:none", "No chart needed.", true, "none", chart.None},
		{"no directive", "  Just text.\n\n", "Just text.", false, "", chart.None},
		{"empty", "", "", false, "", chart.None},
		{"indented with spaces", "Answer\n   tool:  scatter  ", "Answer", true, "scatter", chart.Scatter},
		{"last wins, all stripped", "tool:bar\nMiddle\ntool:line", "Middle", true, "line", chart.Line},
		{"directive mid-text", "A\ntool:heatmap\nB", "A\nB", true, "heatmap", chart.Heatmap},
		{"case sensitive", "Text\ntool:Histogram", "Text", true, "Histogram", chart.Unrecognized},
		{"unknown id", "Text\ntool:pie", "Text", true, "pie", chart.Unrecognized},
		{"empty id", "Text\ntool:", "Text", true, "", chart.Unrecognized},
		{"prefix not at line start", "use tool:histogram later", "use tool:histogram later", false, "", chart.None},
		{"uppercase prefix ignored", "Text\nTOOL:bar", "Text\nTOOL:bar", false, "", chart.None},
		{"crlf", "Line one\r\ntool:boxplot\r\n", "Line one", true, "boxplot", chart.Boxplot},
		{"only directive", "tool:cluster", "", true, "cluster", chart.Cluster},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ParseDirective(tc.raw)
			if d.Text != tc.text {
				t.Errorf("Text = %q, want %q", d.Text, tc.text)
			}
			if d.HasTool != tc.hasTool || d.Identifier != tc.id || d.Tool != tc.tool {
				t.Errorf("got (%v, %q, %v), want (%v, %q, %v)", d.HasTool, d.Identifier, d.Tool, tc.hasTool, tc.id, tc.tool)
			}
		})
	}
}

func TestDirective_Renders(t *testing.T) {
	if ParseDirective("x\ntool:none").Renders() {
		t.Error("none must not render")
	}
	if ParseDirective("x\ntool:pie").Renders() {
		t.Error("unrecognized must not render")
	}
	if ParseDirective("x").Renders() {
		t.Error("absent directive must not render")
	}
	if !ParseDirective("x\ntool:crosstab").Renders() {
		t.Error("crosstab should render")
	}
}

// Parsing the cleaned text again never finds a directive.
func TestParseDirective_Idempotent(t *testing.T) {
	f := func(parts []string, tools []uint8) bool {
		var b strings.Builder
		for i, p := range parts {
			b.WriteString(p)
			b.WriteString("\n")
			if i < len(tools) {
				b.WriteString("tool:" + chart.Tool(tools[i]%10).String() + "\n")
			}
		}
		first := ParseDirective(b.String())
		second := ParseDirective(first.Text)
		return !second.HasTool && second.Text == first.Text
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// The last directive line selects the tool; none survive in the text.
func TestParseDirective_LastSelectedAllStripped(t *testing.T) {
	f := func(body string, picks []uint8) bool {
		if len(picks) == 0 {
			return true
		}
		for strings.Contains(body, toolPrefix) {
			body = strings.ReplaceAll(body, toolPrefix, "")
		}
		tools := chart.Tools()
		var b strings.Builder
		b.WriteString(body)
		for _, p := range picks {
			b.WriteString("\n  tool:" + tools[int(p)%len(tools)].String())
		}
		d := ParseDirective(b.String())
		last := tools[int(picks[len(picks)-1])%len(tools)]
		if !d.HasTool || d.Tool != last {
			return false
		}
		for _, line := range strings.Split(d.Text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), toolPrefix) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
