package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-resty/resty/v2"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicChatModel implements the eino ChatModel interface over the
// Anthropic Messages API. Claude-compatible proxies use the same client
// with a custom base URL.
type AnthropicChatModel struct {
	config *AnthropicConfig
	client *resty.Client
}

type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	// Timeout bounds each HTTP request; zero leaves it to the context.
	Timeout time.Duration
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
	Role       string `json:"role"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewAnthropicChatModel(ctx context.Context, config *AnthropicConfig) (*AnthropicChatModel, error) {
	if config == nil {
		return nil, fmt.Errorf("anthropic config is nil")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("anthropic model name is empty - please configure a valid model name")
	}
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", config.APIKey).
		SetHeader("anthropic-version", anthropicVersion)
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	return &AnthropicChatModel{config: config, client: client}, nil
}

// BindTools is not supported; the agent only needs plain text replies.
func (m *AnthropicChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) > 0 {
		return errors.New("anthropic chat model: tool binding is not supported")
	}
	return nil
}

func (m *AnthropicChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	maxTokens := m.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	req := anthropicRequest{Model: m.config.Model, MaxTokens: maxTokens}
	if o := model.GetCommonOptions(nil, opts...); o.MaxTokens != nil {
		req.MaxTokens = *o.MaxTokens
	}

	var system []string
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			req.Messages = append(req.Messages, anthropicMessage{Role: "assistant", Content: msg.Content})
		default:
			req.Messages = append(req.Messages, anthropicMessage{Role: "user", Content: msg.Content})
		}
	}
	req.System = strings.TrimSpace(strings.Join(system, "\n"))

	var result anthropicResponse
	var apiErr anthropicError
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, &statusError{Status: resp.StatusCode(), Message: msg}
	}

	out := &schema.Message{Role: schema.Assistant}
	for _, block := range result.Content {
		if block.Type == "text" {
			out.Content += block.Text
		}
	}
	return out, nil
}

func (m *AnthropicChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}
