package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAICompatibleWrapper wraps an OpenAI-compatible chat model so its
// errors carry an HTTP status the gateway can classify. Some compatible
// endpoints (Gemini, OpenRouter upstreams) return non-standard error
// bodies that the OpenAI client only reports as text.
type OpenAICompatibleWrapper struct {
	inner   model.ChatModel
	baseURL string
	logger  func(string)
}

// NewOpenAICompatibleWrapper creates a wrapper around an OpenAI-compatible model
func NewOpenAICompatibleWrapper(inner model.ChatModel, baseURL string, logger func(string)) *OpenAICompatibleWrapper {
	return &OpenAICompatibleWrapper{
		inner:   inner,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (w *OpenAICompatibleWrapper) log(msg string) {
	if w.logger != nil {
		w.logger(msg)
	}
}

// Generate wraps the inner model's Generate method with error handling
func (w *OpenAICompatibleWrapper) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	resp, err := w.inner.Generate(ctx, input, opts...)
	if err != nil {
		return nil, w.improveError(err)
	}
	return resp, nil
}

// Stream wraps the inner model's Stream method with error handling
func (w *OpenAICompatibleWrapper) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	reader, err := w.inner.Stream(ctx, input, opts...)
	if err != nil {
		return nil, w.improveError(err)
	}
	return reader, nil
}

// BindTools delegates to the inner model
func (w *OpenAICompatibleWrapper) BindTools(tools []*schema.ToolInfo) error {
	return w.inner.BindTools(tools)
}

var statusPattern = regexp.MustCompile(`(?i)status code:\s*(\d{3})`)

// improveError attaches the HTTP status found in err. Array-shaped error
// bodies ([{"error": {...}}]) are unpacked for their message.
func (w *OpenAICompatibleWrapper) improveError(err error) error {
	errStr := err.Error()

	if strings.Contains(errStr, "cannot unmarshal array") {
		if idx := strings.Index(errStr, "body:"); idx != -1 {
			var arrayErrors []struct {
				Error struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
					Status  string `json:"status"`
				} `json:"error"`
			}
			body := strings.TrimSpace(errStr[idx+len("body:"):])
			if jsonErr := json.Unmarshal([]byte(body), &arrayErrors); jsonErr == nil && len(arrayErrors) > 0 {
				e := arrayErrors[0].Error
				w.log(fmt.Sprintf("[GATEWAY] %s returned array error %d %s", w.baseURL, e.Code, e.Status))
				return fmt.Errorf("%w: %w", &statusError{Status: e.Code, Message: e.Message}, err)
			}
		}
	}

	if m := statusPattern.FindStringSubmatch(errStr); m != nil {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil {
			return fmt.Errorf("%w: %w", &statusError{Status: code, Message: http.StatusText(code)}, err)
		}
	}
	return err
}
