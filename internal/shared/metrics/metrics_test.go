package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("expected one observation per bucket, got %v", snap.counts)
	}
}

func TestRenderIncludesOperationLabels(t *testing.T) {
	IncInferenceStarted("quiz")
	IncInferenceFailed("quiz")
	IncInferenceCompleted("chat")
	ObserveInferenceDurationMs(42)

	out := Render()
	for _, want := range []string{
		`inference_started_total{operation="quiz"}`,
		`inference_failed_total{operation="quiz"}`,
		`inference_completed_total{operation="chat"}`,
		`inference_duration_ms_bucket{le="+Inf"}`,
		"documents_uploaded_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHandlerServesText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
}
