package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"code":"unauthorized","message":"Invalid credentials"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-1","email":"a@example.com"}`)
	})
	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "payload" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true, "filename": "abc.pdf", "originalName": header.Filename,
		})
	})
	mux.HandleFunc("/api/chat-history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"messages":[{"role":"user","content":"q"},{"role":"assistant","content":"a"}]}`)
	})
	mux.HandleFunc("/api/quiz", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"quiz": "Sure!\n[{\"question\":\"Q\",\"options\":[\"T\",\"F\"],\"correctAnswer\":4}]",
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	mux.HandleFunc("/api/delete-document", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"not_found","message":"Document not found"}}`)
	})
	mux.HandleFunc("/api/my-documents", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"documents":null}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresTokenAndUploads(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/api/", nil)

	token, err := c.Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-1" || c.Token() != "tok-1" {
		t.Fatalf("expected stored token, got %q / %q", token, c.Token())
	}

	res, err := c.Upload(context.Background(), "/tmp/notes.pdf", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !res.Success || res.Filename != "abc.pdf" || res.OriginalName != "notes.pdf" {
		t.Fatalf("unexpected upload result: %+v", res)
	}
}

func TestLoginFailureIsAPIError(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/api", nil)

	_, err := c.Login(context.Background(), "a@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Code != "unauthorized" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if c.Token() != "" {
		t.Fatalf("expected no token after failed login")
	}
}

func TestHistoryAndQuizAreNormalized(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/api", nil)
	c.SetToken("tok-1")

	msgs, err := c.History(context.Background(), "abc.pdf")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Content != "a" {
		t.Fatalf("unexpected history: %+v", msgs)
	}

	quiz, err := c.Quiz(context.Background(), "abc.pdf")
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if len(quiz) != 1 || quiz[0].CorrectAnswer != 1 || quiz[0].Type != "true_false" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestDeleteNotFound(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/api", nil)

	err := c.Delete(context.Background(), "missing.pdf")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if apiErr.Message != "Document not found" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestDocumentsNeverNil(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/api", nil)

	docs, err := c.Documents(context.Background())
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected empty list, got %#v", docs)
	}
}
