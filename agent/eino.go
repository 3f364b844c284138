package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"edachat/config"
	"edachat/i18n"
)

const (
	openRouterBaseURL    = "https://openrouter.ai/api/v1"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// NewChatModel builds the eino ChatModel for the configured provider.
func NewChatModel(ctx context.Context, cfg config.Config, logger func(string)) (model.ChatModel, error) {
	var chatModel model.ChatModel
	var err error

	switch cfg.LLMProvider {
	case config.ProviderAnthropic, config.ProviderClaudeCompatible:
		// Claude-Compatible proxies speak the Messages API, not the OpenAI one.
		chatModel, err = NewAnthropicChatModel(ctx, &AnthropicConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.ModelName,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.RequestTimeout(),
		})
	case config.ProviderGemini:
		chatModel, err = NewGeminiChatModel(ctx, &GeminiConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.ModelName,
			MaxTokens: cfg.MaxTokens,
		})
	case config.ProviderOpenAI, config.ProviderOpenAICompatible, config.ProviderOpenRouter, "":
		baseURL := openAIBaseURL(cfg)
		var inner model.ChatModel
		maxTokens := cfg.MaxTokens
		inner, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   baseURL,
			Model:     cfg.ModelName,
			Timeout:   cfg.RequestTimeout(),
			MaxTokens: &maxTokens,
		})
		if err == nil {
			chatModel = NewOpenAICompatibleWrapper(inner, baseURL, logger)
		}
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return chatModel, nil
}

func openAIBaseURL(cfg config.Config) string {
	if cfg.BaseURL != "" {
		return strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.LLMProvider == config.ProviderOpenRouter || cfg.LLMProvider == "" {
		return openRouterBaseURL
	}
	return defaultOpenAIBaseURL
}

// NewGatewayFromConfig builds the model gateway described by cfg.
func NewGatewayFromConfig(ctx context.Context, cfg config.Config, tr *i18n.Translator, logger func(string)) (*ModelGateway, error) {
	m, err := NewChatModel(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewGateway(m,
		WithProvider(cfg.LLMProvider),
		WithPromptLanguage(tr),
		WithTimeout(cfg.RequestTimeout()),
		WithGatewayLogger(logger),
	), nil
}
