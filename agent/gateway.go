package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"edachat/dataset"
	"edachat/i18n"
)

// Gateway sends one question with its dataset summary to the model and
// returns the raw reply. Failures are *GatewayError values.
type Gateway interface {
	Send(ctx context.Context, question string, summary *dataset.Summary) (string, error)
}

// ModelGateway is a Gateway over an eino ChatModel.
type ModelGateway struct {
	model    model.ChatModel
	provider string
	tr       *i18n.Translator
	timeout  time.Duration
	logger   func(string)
}

// GatewayOption configures a ModelGateway.
type GatewayOption func(*ModelGateway)

// WithProvider names the provider in errors and logs.
func WithProvider(name string) GatewayOption {
	return func(g *ModelGateway) { g.provider = name }
}

// WithPromptLanguage selects the prompt template language.
func WithPromptLanguage(tr *i18n.Translator) GatewayOption {
	return func(g *ModelGateway) {
		if tr != nil {
			g.tr = tr
		}
	}
}

// WithTimeout bounds each model call. Zero means no bound.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *ModelGateway) { g.timeout = d }
}

// WithGatewayLogger sets the debug log callback.
func WithGatewayLogger(logf func(string)) GatewayOption {
	return func(g *ModelGateway) { g.logger = logf }
}

// NewGateway wraps m.
func NewGateway(m model.ChatModel, opts ...GatewayOption) *ModelGateway {
	g := &ModelGateway{model: m, tr: i18n.New(i18n.English)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *ModelGateway) log(msg string) {
	if g.logger != nil {
		g.logger(msg)
	}
}

// Send implements Gateway.
func (g *ModelGateway) Send(ctx context.Context, question string, summary *dataset.Summary) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(g.tr, summary, question)
	g.log(fmt.Sprintf("[GATEWAY] Sending question to %s (%d chars)", g.providerName(), len(prompt)))

	start := time.Now()
	resp, err := g.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		g.log(fmt.Sprintf("[GATEWAY] %s failed after %v: %v", g.providerName(), time.Since(start), err))
		return "", classifyError(g.provider, err)
	}
	if resp == nil {
		return "", classifyError(g.provider, errors.New("empty response"))
	}
	g.log(fmt.Sprintf("[GATEWAY] %s replied in %v (%d chars)", g.providerName(), time.Since(start), len(resp.Content)))
	return resp.Content, nil
}

func (g *ModelGateway) providerName() string {
	if g.provider == "" {
		return "model"
	}
	return g.provider
}

// BuildPrompt fills the tool prompt template with the summary and question.
func BuildPrompt(tr *i18n.Translator, summary *dataset.Summary, question string) string {
	if tr == nil {
		tr = i18n.GetTranslator()
	}
	var text string
	if summary != nil {
		text = summary.String()
	}
	return fmt.Sprintf(tr.GetToolPromptTemplate(), text, question)
}
