package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"study-backend/internal/documents"
	"study-backend/internal/llm"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/shared/util"
)

// ContextRunes bounds how much document text goes into a chat prompt.
const ContextRunes = 8000

var (
	ErrNotFound     = documents.ErrNotFound
	ErrInvalidInput = errors.New("question is required")
	ErrUpstream     = errors.New("inference failed")
)

// Message is one entry of a flattened chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service answers questions about a document and keeps its chat history.
type Service struct {
	Repo  documents.DocumentsRepo
	Guard *documents.Guard
	LLM   llm.Client
}

func NewService(repo documents.DocumentsRepo, client llm.Client) *Service {
	return &Service{Repo: repo, Guard: documents.NewGuard(repo), LLM: client}
}

// Ask answers question from the document's text and records the exchange.
func (s *Service) Ask(ctx context.Context, ownerEmail, filename, question string) (string, error) {
	doc, err := s.Guard.Authorize(ctx, ownerEmail, filename)
	if err != nil {
		return "", err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrInvalidInput
	}

	req := llm.ChatRequest(util.TruncateRunes(doc.Text, ContextRunes), question)
	answer, err := s.LLM.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.Repo.AppendChat(ctx, ownerEmail, doc.Filename, question, answer); err != nil {
		return "", fmt.Errorf("append chat: %w", err)
	}
	return answer, nil
}

// History returns alternating user/assistant messages in insertion order.
// Lookup failures yield an empty history.
func (s *Service) History(ctx context.Context, ownerEmail, filename string) []Message {
	doc, err := s.Guard.Authorize(ctx, ownerEmail, filename)
	if err != nil {
		if !errors.Is(err, documents.ErrNotFound) {
			telemetry.Warn("chat.history_lookup_failed", map[string]any{"document": filename, "error": err})
		}
		return []Message{}
	}
	turns, err := s.Repo.ChatHistory(ctx, ownerEmail, doc.Filename)
	if err != nil {
		telemetry.Warn("chat.history_load_failed", map[string]any{"document": filename, "error": err})
		return []Message{}
	}
	out := make([]Message, 0, len(turns)*2)
	for _, turn := range turns {
		out = append(out,
			Message{Role: "user", Content: turn.Question},
			Message{Role: "assistant", Content: turn.Answer},
		)
	}
	return out
}
