// Package agent answers questions about a session's dataset: it asks the
// model, parses the tool directive from the reply, renders the requested
// chart and records the conclusion.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"edachat/chart"
	"edachat/dataset"
	"edachat/i18n"
)

// Dispatcher renders the artifacts for a tool. *chart.Dispatcher is the
// production implementation.
type Dispatcher interface {
	Dispatch(ctx context.Context, ds *dataset.Dataset, tool chart.Tool, p chart.Params) ([]chart.Artifact, error)
}

// Answer is the result of one question.
type Answer struct {
	Text      string
	Directive Directive
	Artifacts []chart.Artifact
}

// Agent runs the question protocol over explicit sessions. An Agent holds
// no session state and can serve any number of sessions.
type Agent struct {
	gateway    Gateway
	dispatcher Dispatcher
	tr         *i18n.Translator
	log        *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithDispatcher replaces the chart dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(a *Agent) { a.dispatcher = d }
}

// WithTranslator sets the language of the fixed answers.
func WithTranslator(tr *i18n.Translator) Option {
	return func(a *Agent) {
		if tr != nil {
			a.tr = tr
		}
	}
}

// WithLogger sets the logger for absorbed failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an Agent that asks questions through gw.
func New(gw Gateway, opts ...Option) *Agent {
	a := &Agent{
		gateway: gw,
		tr:      i18n.New(i18n.English),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.dispatcher == nil {
		a.dispatcher = chart.NewDispatcher(chart.WithTranslator(a.tr))
	}
	return a
}

// LoadDataset replaces the session's dataset and records its shape in
// memory.
func (a *Agent) LoadDataset(s *Session, d *dataset.Dataset) {
	s.turn.Lock()
	defer s.turn.Unlock()

	s.setDataset(d)
	s.Memory().Append(a.tr.T("agent.data_loaded", d.Rows(), d.NumColumns()))
	a.log.Info("dataset loaded",
		zap.String("session", s.ID),
		zap.String("dataset", d.Name),
		zap.Int("rows", d.Rows()),
		zap.Int("columns", d.NumColumns()))
}

// AskOption sets per-question chart parameters.
type AskOption func(*chart.Params)

// WithAxes selects explicit scatter axes. Blank names keep the defaults.
func WithAxes(x, y string) AskOption {
	return func(p *chart.Params) { *p = chart.WithAxes(x, y) }
}

// AnswerQuestion asks the model about the session's dataset.
//
// Without a dataset it returns the fixed no-data answer and leaves memory
// untouched. Gateway errors are returned as is. Chart failures of any kind,
// panics included, are logged and yield an answer without artifacts.
func (a *Agent) AnswerQuestion(ctx context.Context, s *Session, question string, opts ...AskOption) (*Answer, error) {
	s.turn.Lock()
	defer s.turn.Unlock()

	ds := s.Dataset()
	if ds == nil {
		return &Answer{Text: a.tr.T("agent.no_data")}, nil
	}

	raw, err := a.gateway.Send(ctx, question, dataset.Summarize(ds))
	if err != nil {
		return nil, err
	}

	d := ParseDirective(raw)
	ans := &Answer{Text: d.Text, Directive: d}
	if d.Renders() {
		var params chart.Params
		for _, opt := range opts {
			opt(&params)
		}
		ans.Artifacts = a.render(ctx, s, ds, d, params)
	}

	if d.Text != "" {
		s.Memory().Append(d.Text)
	} else {
		s.Memory().Append(a.tr.T("agent.no_answer"))
	}
	return ans, nil
}

func (a *Agent) render(ctx context.Context, s *Session, ds *dataset.Dataset, d Directive, p chart.Params) (arts []chart.Artifact) {
	defer func() {
		if r := recover(); r != nil {
			a.renderFailed(s, d, fmt.Errorf("panic: %v", r))
			arts = nil
		}
	}()
	arts, err := a.dispatcher.Dispatch(ctx, ds, d.Tool, p)
	if err != nil {
		a.renderFailed(s, d, err)
		return nil
	}
	return arts
}

func (a *Agent) renderFailed(s *Session, d Directive, err error) {
	a.log.Warn("chart rendering failed",
		zap.String("session", s.ID),
		zap.String("tool", d.Identifier),
		zap.Error(err))
}
