package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"study-backend/internal/documents"
	"study-backend/internal/llm"
	"study-backend/internal/shared/util"
)

const (
	// ContextRunes bounds how much document text goes into summary and quiz prompts.
	ContextRunes = 6000

	defaultSummaryTimeout = 20 * time.Second
)

var (
	ErrNotFound = documents.ErrNotFound
	ErrUpstream = errors.New("inference failed")
)

// Service generates summaries and quizzes from stored document text.
type Service struct {
	Guard          *documents.Guard
	LLM            llm.Client
	SummaryTimeout time.Duration
}

func NewService(repo documents.DocumentsRepo, client llm.Client, summaryTimeout time.Duration) *Service {
	if summaryTimeout <= 0 {
		summaryTimeout = defaultSummaryTimeout
	}
	return &Service{
		Guard:          documents.NewGuard(repo),
		LLM:            client,
		SummaryTimeout: summaryTimeout,
	}
}

// Summarize returns 6 to 10 bullet points. The inference call is bounded by SummaryTimeout.
func (s *Service) Summarize(ctx context.Context, ownerEmail, filename string) (string, error) {
	doc, err := s.Guard.Authorize(ctx, ownerEmail, filename)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.SummaryTimeout)
	defer cancel()

	summary, err := s.LLM.Complete(callCtx, llm.SummaryRequest(util.TruncateRunes(doc.Text, ContextRunes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("%w: %v", ErrUpstream, llm.ErrEmptyCompletion)
	}
	return summary, nil
}

// GenerateQuiz returns the model's raw quiz text. Clients normalize it.
func (s *Service) GenerateQuiz(ctx context.Context, ownerEmail, filename string) (string, error) {
	doc, err := s.Guard.Authorize(ctx, ownerEmail, filename)
	if err != nil {
		return "", err
	}

	quiz, err := s.LLM.Complete(ctx, llm.QuizRequest(util.TruncateRunes(doc.Text, ContextRunes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return quiz, nil
}
