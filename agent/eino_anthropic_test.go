package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

func TestAnthropicChatModel_RolesAndOptions(t *testing.T) {
	var reqBody anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A base URL ending in /v1 must not produce /v1/v1/messages
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&reqBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"role":"assistant","content":[{"type":"tool_use"},{"type":"text","text":"ok"}]}`))
	}))
	defer server.Close()

	m, err := NewAnthropicChatModel(context.Background(), &AnthropicConfig{
		APIKey:    "k",
		BaseURL:   server.URL + "/v1/",
		Model:     "claude-test",
		MaxTokens: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("System Prompt"),
		schema.SystemMessage("Second rule"),
		schema.UserMessage("first question"),
		schema.AssistantMessage("first answer", nil),
		schema.UserMessage("follow-up"),
	}, model.WithMaxTokens(128))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Content != "ok" || resp.Role != schema.Assistant {
		t.Errorf("unexpected response %+v", resp)
	}

	if reqBody.System != "System Prompt\nSecond rule" {
		t.Errorf("system = %q", reqBody.System)
	}
	if reqBody.MaxTokens != 128 {
		t.Errorf("max_tokens = %d, want the per-call option", reqBody.MaxTokens)
	}
	roles := []string{}
	for _, msg := range reqBody.Messages {
		roles = append(roles, msg.Role)
	}
	if len(roles) != 3 || roles[0] != "user" || roles[1] != "assistant" || roles[2] != "user" {
		t.Errorf("roles = %v", roles)
	}
}

func TestAnthropicChatModel_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"role":"assistant","content":[{"type":"text","text":"streamed"}]}`))
	}))
	defer server.Close()

	m, err := NewAnthropicChatModel(context.Background(), &AnthropicConfig{BaseURL: server.URL, Model: "claude-test"})
	if err != nil {
		t.Fatal(err)
	}
	sr, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	if err != nil {
		t.Fatal(err)
	}
	defer sr.Close()
	msg, err := sr.Recv()
	if err != nil || msg.Content != "streamed" {
		t.Errorf("Recv = %v, %v", msg, err)
	}
}

func TestNewAnthropicChatModel_Validation(t *testing.T) {
	if _, err := NewAnthropicChatModel(context.Background(), nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := NewAnthropicChatModel(context.Background(), &AnthropicConfig{APIKey: "k"}); err == nil {
		t.Error("empty model should fail")
	}

	m, _ := NewAnthropicChatModel(context.Background(), &AnthropicConfig{Model: "claude-test"})
	if err := m.BindTools(nil); err != nil {
		t.Errorf("BindTools(nil) = %v", err)
	}
	if err := m.BindTools([]*schema.ToolInfo{{Name: "chart"}}); err == nil {
		t.Error("binding tools should be rejected")
	}
}
