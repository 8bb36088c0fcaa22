package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"study-backend/internal/shared/metrics"
)

func TestChatRequestEmbedsDocumentAndQuestion(t *testing.T) {
	req := ChatRequest("Mitochondria make ATP.", "What makes ATP?")
	if req.System != "Answer only using the provided document." {
		t.Fatalf("unexpected system %q", req.System)
	}
	if !strings.HasPrefix(req.Prompt, "You are a study assistant. ONLY answer using this document content:") {
		t.Fatalf("unexpected prompt %q", req.Prompt)
	}
	if !strings.Contains(req.Prompt, "Mitochondria make ATP.") || !strings.Contains(req.Prompt, "Question: What makes ATP?") {
		t.Fatalf("prompt missing parts: %q", req.Prompt)
	}
	if req.Temperature != nil {
		t.Fatalf("expected default temperature for chat")
	}
}

func TestChatRequestDoesNotExpandPlaceholdersInDocument(t *testing.T) {
	req := ChatRequest("literal {{QUESTION}} text", "real question")
	if !strings.Contains(req.Prompt, "literal {{QUESTION}} text") {
		t.Fatalf("document placeholder was expanded: %q", req.Prompt)
	}
}

func TestQuizRequestTemperature(t *testing.T) {
	req := QuizRequest("doc")
	if req.Temperature == nil || *req.Temperature != 0.4 {
		t.Fatalf("expected temperature 0.4, got %v", req.Temperature)
	}
	if req.System != "Return ONLY valid JSON. No comments." {
		t.Fatalf("unexpected system %q", req.System)
	}
	if !strings.Contains(req.Prompt, "2 questions must be true/false.") || !strings.HasSuffix(strings.TrimSpace(req.Prompt), "doc") {
		t.Fatalf("unexpected quiz prompt %q", req.Prompt)
	}
}

func TestSummaryRequest(t *testing.T) {
	req := SummaryRequest("doc")
	if req.Operation != OperationSummary || req.System != "Return only bullet points. No intro." {
		t.Fatalf("unexpected request %+v", req)
	}
	if !strings.Contains(req.Prompt, "Do NOT exceed 120 words.") {
		t.Fatalf("unexpected summary prompt %q", req.Prompt)
	}
}

type stubClient struct {
	out string
	err error
}

func (s stubClient) Complete(context.Context, Request) (string, error) { return s.out, s.err }

func TestWithMetricsCountsOutcomes(t *testing.T) {
	ok := WithMetrics(stubClient{out: "fine"})
	if out, err := ok.Complete(context.Background(), Request{Operation: "metrics-test-ok"}); err != nil || out != "fine" {
		t.Fatalf("unexpected result %q %v", out, err)
	}
	failing := WithMetrics(stubClient{err: errors.New("boom")})
	if _, err := failing.Complete(context.Background(), Request{Operation: "metrics-test-fail"}); err == nil {
		t.Fatalf("expected error")
	}

	rendered := metrics.Render()
	if !strings.Contains(rendered, `inference_completed_total{operation="metrics-test-ok"} 1`) {
		t.Fatalf("missing completed counter:\n%s", rendered)
	}
	if !strings.Contains(rendered, `inference_failed_total{operation="metrics-test-fail"} 1`) {
		t.Fatalf("missing failed counter:\n%s", rendered)
	}
}

func TestPlaceholderClient(t *testing.T) {
	if _, err := (PlaceholderClient{}).Complete(context.Background(), Request{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
