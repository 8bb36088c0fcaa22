// Package apiclient is a Go consumer of the study API. Chat history and quiz
// payloads are passed through the normalize package before they are returned.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"study-backend/internal/normalize"
)

const defaultTimeout = 2 * time.Minute

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Document is one entry of the caller's document list.
type Document struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UploadResult describes a stored upload.
type UploadResult struct {
	Success      bool   `json:"success"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
}

// Profile is the bearer's account summary.
type Profile struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	DocumentCount int    `json:"documentCount"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New targets baseURL, which should include the /api prefix.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SetToken(token string) { c.token = strings.TrimSpace(token) }

func (c *Client) Token() string { return c.token }

func (c *Client) Register(ctx context.Context, email, password, name string) error {
	body := map[string]string{"email": email, "password": password, "name": name}
	return c.postJSON(ctx, "/register", body, nil)
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/login", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: empty token")
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Me(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.getJSON(ctx, "/me", &out)
	return out, err
}

// Upload sends r as a multipart "file" field named fileName.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out UploadResult
	err = c.do(req, &out)
	return out, err
}

// UploadFile uploads the file at path.
func (c *Client) UploadFile(ctx context.Context, path string) (UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, err
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f)
}

func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := c.getJSON(ctx, "/my-documents", &resp); err != nil {
		return nil, err
	}
	if resp.Documents == nil {
		resp.Documents = []Document{}
	}
	return resp.Documents, nil
}

func (c *Client) Delete(ctx context.Context, filename string) error {
	payload, err := json.Marshal(map[string]string{"filename": filename})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodDelete, "/delete-document", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// History returns the normalized chat history for a document.
func (c *Client) History(ctx context.Context, filename string) ([]normalize.Message, error) {
	var raw any
	if err := c.postJSON(ctx, "/chat-history", map[string]string{"filename": filename}, &raw); err != nil {
		return nil, err
	}
	return normalize.ChatHistory(raw), nil
}

func (c *Client) Chat(ctx context.Context, filename, question string) (string, error) {
	var resp struct {
		Answer string `json:"answer"`
	}
	body := map[string]string{"filename": filename, "question": question}
	if err := c.postJSON(ctx, "/chat", body, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) Summary(ctx context.Context, filename string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := c.postJSON(ctx, "/summary", map[string]string{"filename": filename}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// Quiz generates a quiz and repairs whatever the model produced into
// questions.
func (c *Client) Quiz(ctx context.Context, filename string) ([]normalize.Question, error) {
	var raw any
	if err := c.postJSON(ctx, "/quiz", map[string]string{"filename": filename}, &raw); err != nil {
		return nil, err
	}
	if obj, ok := raw.(map[string]any); ok {
		if quiz, present := obj["quiz"]; present && quiz != nil {
			raw = quiz
		}
	}
	return normalize.Quiz(raw), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
