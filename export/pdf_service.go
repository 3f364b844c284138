// Package export renders a conversation transcript to PDF.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"edachat/i18n"
)

// Chart is one rendered image attached to an answer.
type Chart struct {
	Title string
	PNG   []byte
}

// Entry is one question with the answer and charts it produced.
type Entry struct {
	Question string
	Answer   string
	Charts   []Chart
}

// Transcript is the exported conversation.
type Transcript struct {
	Dataset string
	Entries []Entry
	Created time.Time
}

// PDFExportService handles PDF generation using maroto
type PDFExportService struct {
	tr *i18n.Translator
}

// NewPDFExportService creates a new PDF export service. A nil translator
// uses the shared default.
func NewPDFExportService(tr *i18n.Translator) *PDFExportService {
	if tr == nil {
		tr = i18n.GetTranslator()
	}
	return &PDFExportService{tr: tr}
}

// charsPerLine approximates how many 10pt Arial characters fit across a
// portrait page with 15mm margins.
const charsPerLine = 95

var (
	blue  = &props.Color{Red: 59, Green: 130, Blue: 246}
	slate = &props.Color{Red: 100, Green: 116, Blue: 139}
	light = &props.Color{Red: 148, Green: 163, Blue: 184}
)

// ExportTranscript renders every entry in order: question, answer, then
// each chart scaled to the page width.
func (s *PDFExportService) ExportTranscript(t Transcript) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithDefaultFont(&props.Font{
			Family: fontfamily.Arial,
			Size:   10,
		}).
		Build()

	m := maroto.New(cfg)

	created := t.Created
	if created.IsZero() {
		created = time.Now()
	}
	s.addHeader(m, t.Dataset, created)

	for i, e := range t.Entries {
		s.addEntry(m, i+1, e)
	}

	s.addFooter(m)

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return document.GetBytes(), nil
}

func (s *PDFExportService) addHeader(m core.Maroto, dataset string, created time.Time) {
	m.AddRow(20,
		col.New(12).Add(
			text.New(s.tr.T("export.title"), props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: blue,
			}),
		),
	)

	subtitle := s.tr.T("export.generated", created.Format("2006-01-02 15:04:05"))
	if dataset != "" {
		subtitle = dataset + " | " + subtitle
	}
	m.AddRow(8,
		col.New(12).Add(
			text.New(subtitle, props.Text{
				Size:  9,
				Align: align.Center,
				Color: slate,
			}),
		),
	)

	m.AddRow(5)
}

func (s *PDFExportService) addEntry(m core.Maroto, n int, e Entry) {
	m.AddRow(8,
		col.New(12).Add(
			text.New(fmt.Sprintf("%d. %s", n, s.tr.T("export.question")), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
			}),
		),
	)
	m.AddRow(textHeight(e.Question, 5),
		col.New(12).Add(text.New(e.Question, props.Text{Size: 10})),
	)

	m.AddRow(8,
		col.New(12).Add(
			text.New(s.tr.T("export.answer"), props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Color: slate,
			}),
		),
	)
	m.AddRow(textHeight(e.Answer, 5),
		col.New(12).Add(text.New(e.Answer, props.Text{Size: 10})),
	)

	for i, c := range e.Charts {
		if len(c.PNG) == 0 {
			continue
		}
		m.AddRow(6,
			col.New(12).Add(
				text.New(s.tr.T("export.chart", i+1, c.Title), props.Text{
					Size:  9,
					Style: fontstyle.Italic,
				}),
			),
		)
		// Auto-fit to page width
		m.AddRow(90,
			col.New(12).Add(
				image.NewFromBytes(c.PNG, extension.Png),
			),
		)
	}

	m.AddRow(6)
}

func (s *PDFExportService) addFooter(m core.Maroto) {
	m.AddRow(10,
		col.New(12).Add(
			text.New(s.tr.T("export.footer"), props.Text{
				Size:  8,
				Align: align.Center,
				Color: light,
			}),
		),
	)
}

// textHeight estimates the row height for wrapped text.
func textHeight(s string, lineHeight float64) float64 {
	lines := 0
	for _, para := range strings.Split(s, "\n") {
		lines += utf8.RuneCountInString(para)/charsPerLine + 1
	}
	return float64(lines) * lineHeight
}
