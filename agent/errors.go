package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a gateway failure.
type ErrorKind int

const (
	ErrorKindTransport ErrorKind = iota
	ErrorKindAuth
)

func (k ErrorKind) String() string {
	if k == ErrorKindAuth {
		return "auth"
	}
	return "transport"
}

var (
	// ErrTransport matches any gateway failure caused by the network, the
	// remote service or a deadline.
	ErrTransport = errors.New("model transport error")
	// ErrAuth matches gateway failures caused by rejected credentials.
	ErrAuth = errors.New("model authentication error")
)

// GatewayError is returned by Gateway implementations. It is never retried
// or absorbed by the Agent.
type GatewayError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrTransport and ErrAuth by kind.
func (e *GatewayError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == ErrorKindTransport
	case ErrAuth:
		return e.Kind == ErrorKindAuth
	}
	return false
}

// statusError carries an HTTP status from providers that expose one.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// classifyError wraps err from provider as a GatewayError. An existing
// GatewayError is returned unchanged.
func classifyError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &GatewayError{Kind: errorKind(err), Provider: provider, Err: err}
}

func errorKind(err error) ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTransport
	}
	var se *statusError
	if errors.As(err, &se) {
		return statusKind(se.Status)
	}
	if code, ok := apiStatus(err); ok {
		return statusKind(code)
	}

	// Providers wrapped by eino-ext only expose the status in the message.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"status code: 401", "status code: 403", "(401)", "(403)",
		"unauthorized", "invalid api key", "invalid_api_key", "incorrect api key",
		"authentication", "permission denied", "api key not valid",
	} {
		if strings.Contains(msg, marker) {
			return ErrorKindAuth
		}
	}
	return ErrorKindTransport
}

func statusKind(status int) ErrorKind {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return ErrorKindAuth
	}
	return ErrorKindTransport
}
