package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/auth"
)

func newAuthRouter(t *testing.T, tokens *auth.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(tokens))
	router.GET("/api/my-documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": UserEmailFromContext(c)})
	})
	return router
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	router := newAuthRouter(t, tokens)

	other := auth.NewTokenService("other-secret", time.Hour)
	forged, err := other.Sign("mallory@example.com")
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "bad signature", header: "Bearer " + forged},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/my-documents", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.Code)
			}
		})
	}
}

func TestAuthStoresEmail(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	router := newAuthRouter(t, tokens)

	token, err := tokens.Sign("alice@example.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/my-documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != `{"email":"alice@example.com"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}
