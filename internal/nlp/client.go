package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
)

const parsePath = "/parse"

// HTTPAnnotator calls a dependency-parse service that accepts {"text": ...}
// on /parse and answers with spaCy-style tokens and entity spans.
type HTTPAnnotator struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPAnnotator(baseURL string, timeout time.Duration) *HTTPAnnotator {
	return &HTTPAnnotator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

func (a *HTTPAnnotator) Annotate(ctx context.Context, text string) (*domain.AnnotatedDoc, error) {
	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+parsePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotator request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read annotator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotator returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var doc domain.AnnotatedDoc
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal annotator response: %w", err)
	}
	if doc.Text == "" {
		doc.Text = text
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that token indices are sequential and heads are in range.
func Validate(doc *domain.AnnotatedDoc) error {
	n := len(doc.Tokens)
	for i, t := range doc.Tokens {
		if t.Index != i {
			return fmt.Errorf("token %d has index %d", i, t.Index)
		}
		if t.Head < 0 || t.Head >= n {
			return fmt.Errorf("token %d has head %d out of range", i, t.Head)
		}
	}
	for _, e := range doc.Entities {
		if e.Start < 0 || e.End > n || e.Start >= e.End {
			return fmt.Errorf("entity %q has invalid token range [%d,%d)", e.Text, e.Start, e.End)
		}
	}
	return nil
}
