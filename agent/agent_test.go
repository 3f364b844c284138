package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"edachat/chart"
	"edachat/dataset"
	"edachat/i18n"
)

// stubGateway returns a canned reply and records calls.
type stubGateway struct {
	reply string
	err   error
	calls int
	last  *dataset.Summary
}

func (g *stubGateway) Send(ctx context.Context, question string, summary *dataset.Summary) (string, error) {
	g.calls++
	g.last = summary
	return g.reply, g.err
}

// recordingDispatcher wraps a Dispatcher and records what it was asked.
type recordingDispatcher struct {
	inner  Dispatcher
	calls  int
	tool   chart.Tool
	params chart.Params
	panic  bool
	err    error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, ds *dataset.Dataset, tool chart.Tool, p chart.Params) ([]chart.Artifact, error) {
	d.calls++
	d.tool, d.params = tool, p
	if d.panic {
		panic("renderer exploded")
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.inner.Dispatch(ctx, ds, tool, p)
}

func ageCityDataset() *dataset.Dataset {
	return dataset.MustNew("people",
		dataset.NewNumeric("age", 23, 35, 41, 29),
		dataset.NewCategorical("city", "Lisbon", "Porto", "Lisbon", "Faro"),
	)
}

func newTestAgent(gw Gateway) (*Agent, *recordingDispatcher) {
	rd := &recordingDispatcher{inner: chart.NewDispatcher(chart.WithSize(320, 240))}
	return New(gw, WithDispatcher(rd)), rd
}

func TestAnswerQuestion_NoDataset(t *testing.T) {
	gw := &stubGateway{reply: "unused"}
	a, rd := newTestAgent(gw)
	s := NewSession("")

	for i := 0; i < 3; i++ {
		ans, err := a.AnswerQuestion(context.Background(), s, "anything?")
		require.NoError(t, err)
		assert.Equal(t, "No data loaded.", ans.Text)
		assert.Empty(t, ans.Artifacts)
		assert.Equal(t, 0, s.Memory().Len())
	}
	assert.Equal(t, 0, gw.calls)
	assert.Equal(t, 0, rd.calls)
}

func TestLoadDataset_RecordsShape(t *testing.T) {
	a, _ := newTestAgent(&stubGateway{})
	s := NewSession("s1")
	a.LoadDataset(s, ageCityDataset())

	assert.NotNil(t, s.Dataset())
	last, ok := s.Memory().Last()
	require.True(t, ok)
	assert.Equal(t, "Data loaded: 4 rows, 2 columns.", last)

	replacement := dataset.MustNew("other", dataset.NewNumeric("x", 1))
	a.LoadDataset(s, replacement)
	assert.Same(t, replacement, s.Dataset())
	assert.Equal(t, 2, s.Memory().Len())
}

func TestAnswerQuestion_ScenarioHistogram(t *testing.T) {
	gw := &stubGateway{reply: "Here is the distribution.\ntool:histogram"}
	a, rd := newTestAgent(gw)
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())

	ans, err := a.AnswerQuestion(context.Background(), s, "What does age look like?")
	require.NoError(t, err)
	assert.Equal(t, "Here is the distribution.", ans.Text)
	require.Len(t, ans.Artifacts, 1)
	assert.Equal(t, "Histogram of age", ans.Artifacts[0].Title)
	assert.Equal(t, chart.Histogram, rd.tool)
	require.NotNil(t, gw.last)
	assert.Equal(t, 4, gw.last.Rows)

	last, _ := s.Memory().Last()
	assert.Equal(t, "Here is the distribution.", last)
}

func TestAnswerQuestion_ScenarioNone(t *testing.T) {
	a, rd := newTestAgent(&stubGateway{reply: "No chart needed.\ntool:none"})
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())

	ans, err := a.AnswerQuestion(context.Background(), s, "q")
	require.NoError(t, err)
	assert.Equal(t, "No chart needed.", ans.Text)
	assert.Empty(t, ans.Artifacts)
	assert.Equal(t, 0, rd.calls)
	last, _ := s.Memory().Last()
	assert.Equal(t, "No chart needed.", last)
}

func TestAnswerQuestion_ScenarioNoDirective(t *testing.T) {
	a, rd := newTestAgent(&stubGateway{reply: "  The mean age is 32.\n"})
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())

	ans, err := a.AnswerQuestion(context.Background(), s, "q")
	require.NoError(t, err)
	assert.False(t, ans.Directive.HasTool)
	assert.Equal(t, "The mean age is 32.", ans.Text)
	assert.Empty(t, ans.Artifacts)
	assert.Equal(t, 0, rd.calls)
}

func TestAnswerQuestion_UnrecognizedToolLikeNone(t *testing.T) {
	a, rd := newTestAgent(&stubGateway{reply: "Pie time.\ntool:pie"})
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())

	ans, err := a.AnswerQuestion(context.Background(), s, "q")
	require.NoError(t, err)
	assert.Equal(t, "Pie time.", ans.Text)
	assert.Equal(t, chart.Unrecognized, ans.Directive.Tool)
	assert.Empty(t, ans.Artifacts)
	assert.Equal(t, 0, rd.calls)
}

func TestAnswerQuestion_EmptyReplyPlaceholder(t *testing.T) {
	a, _ := newTestAgent(&stubGateway{reply: "tool:none"})
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())

	ans, err := a.AnswerQuestion(context.Background(), s, "q")
	require.NoError(t, err)
	assert.Equal(t, "", ans.Text)
	last, _ := s.Memory().Last()
	assert.Equal(t, "No answer generated by the model.", last)
}

func TestAnswerQuestion_GatewayErrorPropagates(t *testing.T) {
	gwErr := &GatewayError{Kind: ErrorKindAuth, Provider: "mock", Err: errors.New("bad key")}
	a, _ := newTestAgent(&stubGateway{err: gwErr})
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())
	before := s.Memory().Len()

	ans, err := a.AnswerQuestion(context.Background(), s, "q")
	assert.Nil(t, ans)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, before, s.Memory().Len())
}

func TestAnswerQuestion_RenderFailuresAbsorbed(t *testing.T) {
	cases := map[string]*recordingDispatcher{
		"error": {err: errors.New("boom")},
		"panic": {panic: true},
	}
	for name, rd := range cases {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			a := New(&stubGateway{reply: "See the chart below.\ntool:boxplot"},
				WithDispatcher(rd), WithLogger(zap.New(core)))
			s := NewSession("sess")
			a.LoadDataset(s, ageCityDataset())

			ans, err := a.AnswerQuestion(context.Background(), s, "q")
			require.NoError(t, err)
			assert.Equal(t, "See the chart below.", ans.Text)
			assert.Empty(t, ans.Artifacts)
			last, _ := s.Memory().Last()
			assert.Equal(t, "See the chart below.", last)

			entries := logs.FilterMessage("chart rendering failed").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, "sess", fields["session"])
			assert.Equal(t, "boxplot", fields["tool"])
		})
	}
}

func TestAnswerQuestion_InvalidAxesAbsorbed(t *testing.T) {
	a, rd := newTestAgent(&stubGateway{reply: "Scatter.\ntool:scatter"})
	s := NewSession("")
	a.LoadDataset(s, ageCityDataset())

	ans, err := a.AnswerQuestion(context.Background(), s, "q", WithAxes("age", "city"))
	require.NoError(t, err)
	assert.Empty(t, ans.Artifacts)
	require.NotNil(t, rd.params.Axes)
	assert.Equal(t, "city", rd.params.Axes.Y)
}

func TestAnswerQuestion_Translated(t *testing.T) {
	a := New(&stubGateway{}, WithTranslator(i18n.New(i18n.Portuguese)))
	ans, err := a.AnswerQuestion(context.Background(), NewSession(""), "q")
	require.NoError(t, err)
	assert.NotEqual(t, "No data loaded.", ans.Text)
}

func TestSessions_Independent(t *testing.T) {
	a, _ := newTestAgent(&stubGateway{reply: "ok"})
	s1, s2 := NewSession(""), NewSession("")
	assert.NotEqual(t, s1.ID, s2.ID)

	a.LoadDataset(s1, ageCityDataset())
	_, err := a.AnswerQuestion(context.Background(), s1, "q")
	require.NoError(t, err)

	assert.Nil(t, s2.Dataset())
	assert.Equal(t, 0, s2.Memory().Len())
	assert.Equal(t, 2, s1.Memory().Len())
}

func TestMemory_ConclusionsIsACopy(t *testing.T) {
	var m Memory
	m.Append("a")
	got := m.Conclusions()
	got[0] = "changed"
	assert.Equal(t, []string{"a"}, m.Conclusions())
}
