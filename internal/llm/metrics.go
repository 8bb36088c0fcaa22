package llm

import (
	"context"
	"time"

	"study-backend/internal/shared/metrics"
)

type instrumented struct {
	next Client
}

// WithMetrics counts and times every call made through next.
func WithMetrics(next Client) Client {
	return instrumented{next: next}
}

func (i instrumented) Complete(ctx context.Context, req Request) (string, error) {
	op := req.Operation
	if op == "" {
		op = "unknown"
	}
	start := time.Now()
	metrics.IncInferenceStarted(op)
	out, err := i.next.Complete(ctx, req)
	metrics.ObserveInferenceDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncInferenceFailed(op)
		return "", err
	}
	metrics.IncInferenceCompleted(op)
	return out, nil
}
