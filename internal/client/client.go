// Package client is a thin HTTP client for the lide /v0 API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/service"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// APIError carries a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) Version(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	return out, c.do(ctx, http.MethodGet, "/v0/version", nil, &out)
}

func (c *Client) CreateSession(ctx context.Context, id, name string) (*domain.SessionMetadata, error) {
	var out domain.SessionMetadata
	in := map[string]string{"id": id, "name": name}
	if err := c.do(ctx, http.MethodPost, "/v0/sessions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type SessionPage struct {
	Sessions []domain.SessionMetadata `json:"sessions"`
	Total    int                      `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

func (c *Client) ListSessions(ctx context.Context, limit, offset int) (*SessionPage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/v0/sessions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out SessionPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddMessage(ctx context.Context, sessionID, text string, mode domain.ProcessingMode) (*service.TurnResult, error) {
	var out service.TurnResult
	in := map[string]string{"text": text, "mode": string(mode)}
	if err := c.do(ctx, http.MethodPost, "/v0/sessions/"+url.PathEscape(sessionID)+"/messages", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one message through the interceptor.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*service.ChatReply, error) {
	var out service.ChatReply
	in := map[string]string{"session_id": sessionID, "message": message}
	if err := c.do(ctx, http.MethodPost, "/v0/chat/message", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExportJSON(ctx context.Context, sessionID string) (*service.SessionExport, error) {
	var out service.SessionExport
	if err := c.do(ctx, http.MethodGet, c.exportPath(sessionID, service.FormatJSON), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExportMarkdown(ctx context.Context, sessionID string) (string, error) {
	var out service.MarkdownExport
	if err := c.do(ctx, http.MethodGet, c.exportPath(sessionID, service.FormatMarkdown), nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) exportPath(sessionID, format string) string {
	return "/v0/sessions/" + url.PathEscape(sessionID) + "/export?format=" + url.QueryEscape(format)
}

// Analyze stores text as a new document and analyses it.
func (c *Client) Analyze(ctx context.Context, text string, mode domain.ProcessingMode, maxDiagnostics int) (*service.AnalysisResult, error) {
	var doc domain.Document
	if err := c.do(ctx, http.MethodPost, "/v0/docs", map[string]string{"text": text}, &doc); err != nil {
		return nil, err
	}

	in := map[string]any{
		"docId": doc.ID,
		"options": map[string]any{
			"processing_mode": string(mode),
			"maxDiagnostics":  maxDiagnostics,
		},
	}
	var out service.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/v0/analyze", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
