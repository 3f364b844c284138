package main

import (
	"errors"
	"fmt"
	"testing"

	"edachat/agent"
)

func TestServiceError_ErrorFormat(t *testing.T) {
	tests := []struct {
		name      string
		service   string
		operation string
		err       error
		want      string
	}{
		{"basic error", "Config", "Load", fmt.Errorf("file not found"), "[Config.Load] file not found"},
		{"empty service name", "", "Save", fmt.Errorf("disk full"), "[.Save] disk full"},
		{"empty operation name", "Export", "", fmt.Errorf("timeout"), "[Export.] timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := &ServiceError{Service: tt.service, Operation: tt.operation, Err: tt.err}
			if got := se.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	if err := WrapError("Agent", "Ask", nil); err != nil {
		t.Errorf("WrapError(nil) = %v, want nil", err)
	}
	if err := WrapOperationError("load dataset", nil); err != nil {
		t.Errorf("WrapOperationError(nil) = %v, want nil", err)
	}
}

func TestWrapError_KeepsGatewayKind(t *testing.T) {
	gw := &agent.GatewayError{Kind: agent.ErrorKindAuth, Provider: "Gemini", Err: errors.New("401")}
	err := WrapOperationError("answer question", WrapError("Agent", "AnswerQuestion", gw))

	if !errors.Is(err, agent.ErrAuth) {
		t.Errorf("errors.Is(err, ErrAuth) = false for %v", err)
	}
	var se *ServiceError
	if !errors.As(err, &se) || se.Service != "Agent" {
		t.Errorf("errors.As did not find the ServiceError in %v", err)
	}
	want := "failed to answer question: [Agent.AnswerQuestion] " + gw.Error()
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapOperationErrorf(t *testing.T) {
	err := WrapOperationErrorf("open %s database", errors.New("locked"), "sqlite")
	if err.Error() != "failed to open sqlite database: locked" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
