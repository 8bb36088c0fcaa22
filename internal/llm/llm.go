package llm

import (
	"context"
	"errors"
)

// Operation names used for logging and metrics.
const (
	OperationChat    = "chat"
	OperationSummary = "summary"
	OperationQuiz    = "quiz"
)

// Request is a single system+user chat completion.
type Request struct {
	Operation   string
	System      string
	Prompt      string
	Temperature *float32
}

// Client abstracts chat-completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var (
	// ErrEmptyCompletion is returned when the provider answers with no content.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("inference API key not configured")
)

// PlaceholderClient stands in when no API key is configured outside production.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(v float32) *float32 {
	return &v
}
