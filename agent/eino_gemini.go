package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// GeminiChatModel implements the eino ChatModel interface for Google Gemini
// through the genai SDK.
type GeminiChatModel struct {
	config *GeminiConfig
	client *genai.Client
}

// GeminiConfig holds configuration for Gemini API
type GeminiConfig struct {
	APIKey    string
	BaseURL   string // Optional custom base URL
	Model     string // e.g. "gemini-2.5-flash"
	MaxTokens int
}

// NewGeminiChatModel creates a new Gemini chat model
func NewGeminiChatModel(ctx context.Context, config *GeminiConfig) (*GeminiChatModel, error) {
	if config == nil {
		return nil, fmt.Errorf("gemini config is nil")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("gemini model name is empty - please configure a valid model name")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is empty - please configure your API key")
	}

	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(config.BaseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiChatModel{config: config, client: client}, nil
}

// BindTools is not supported; the agent only needs plain text replies.
func (m *GeminiChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) > 0 {
		return errors.New("gemini chat model: tool binding is not supported")
	}
	return nil
}

// Generate sends the conversation to Gemini and returns the text reply.
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	cfg := &genai.GenerateContentConfig{}
	if m.config.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(m.config.MaxTokens)
	}

	var contents []*genai.Content
	var system []string
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.config.Model, contents, cfg)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: resp.Text()}, nil
}

func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// apiStatus extracts the HTTP status from a genai API error.
func apiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return http.StatusOK, false
}
