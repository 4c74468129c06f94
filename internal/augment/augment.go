// Package augment asks a generative model for a meaning graph and merges its
// answer into a dependency-built graph. Every failure degrades to an empty
// delta.
package augment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/llm"
	"go.uber.org/zap"
)

const (
	EngineID      = "llm-provider"
	engineVersion = "1.0"
)

var ErrNoJSON = errors.New("no JSON object in model output")

type Augmenter struct {
	client  domain.LLMClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewAugmenter returns an Augmenter bound to client. A nil client yields an
// Augmenter that never proposes anything.
func NewAugmenter(client domain.LLMClient, timeout time.Duration, logger *zap.Logger) *Augmenter {
	return &Augmenter{client: client, timeout: timeout, logger: logger}
}

func (a *Augmenter) Enabled() bool {
	return a != nil && a.client != nil
}

// Propose returns the model's graph for text, or an empty delta on timeout,
// provider error or unparseable output.
func (a *Augmenter) Propose(ctx context.Context, text, docID string) *domain.GraphDelta {
	if !a.Enabled() {
		return &domain.GraphDelta{}
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.client.Complete(ctx, llm.GraphPrompt(text))
	if err != nil {
		a.logger.Warn("augmentation request failed", zap.String("doc_id", docID), zap.Error(err))
		return &domain.GraphDelta{}
	}
	delta, err := ParseGraph(raw, text, docID)
	if err != nil {
		a.logger.Warn("augmentation output discarded", zap.String("doc_id", docID), zap.Error(err))
		return &domain.GraphDelta{}
	}
	a.logger.Debug("augmentation proposed",
		zap.String("doc_id", docID),
		zap.Int("nodes", len(delta.Nodes)),
		zap.Int("edges", len(delta.Edges)),
	)
	return delta
}

type wireGraph struct {
	Nodes []domain.Node `json:"nodes"`
	Edges []struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Role   string `json:"role"`
	} `json:"edges"`
}

// ParseGraph reads the JSON object between the first '{' and the last '}' of
// raw. A {"test_cases": {...}} wrapper is unwrapped by picking the first case,
// in key order, whose name occurs in text. Nodes with an unknown type and
// edges with an unknown role are dropped.
func ParseGraph(raw, text, docID string) (*domain.GraphDelta, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}
	body := []byte(raw[start : end+1])

	var wrapper struct {
		TestCases map[string]json.RawMessage `json:"test_cases"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if wrapper.TestCases != nil {
		body = pickCase(wrapper.TestCases, text)
		if body == nil {
			return &domain.GraphDelta{}, nil
		}
	}

	var wg wireGraph
	if err := json.Unmarshal(body, &wg); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	delta := &domain.GraphDelta{}
	for _, n := range wg.Nodes {
		if n.ID == "" || !domain.ValidNodeType(string(n.Type)) {
			continue
		}
		delta.Nodes = append(delta.Nodes, n)
	}
	for _, e := range wg.Edges {
		if e.Source == "" || e.Target == "" || !domain.ValidEdgeRole(e.Role) {
			continue
		}
		delta.Edges = append(delta.Edges, domain.Edge{
			Source: e.Source,
			Target: e.Target,
			Role:   domain.EdgeRole(e.Role),
			Provenance: []domain.Provenance{{
				SourceDoc:     docID,
				EngineID:      EngineID,
				EngineVersion: engineVersion,
				Confidence:    0.8,
			}},
		})
	}
	return delta, nil
}

func pickCase(cases map[string]json.RawMessage, text string) []byte {
	keys := make([]string, 0, len(cases))
	for k := range cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lower := strings.ToLower(text)
	for _, k := range keys {
		if strings.Contains(lower, strings.ToLower(k)) {
			return cases[k]
		}
	}
	return nil
}

// Merge adds delta to g without replacing anything: nodes with a new id are
// appended and stamped with frameID, edges are appended when both endpoints
// exist and the edge is not already present. It returns the counts added.
func Merge(g *domain.MeaningGraph, delta *domain.GraphDelta, frameID string) (nodes, edges int) {
	if delta.Empty() {
		return 0, 0
	}
	for _, n := range delta.Nodes {
		if n.Properties.FrameID == "" {
			n.Properties.FrameID = frameID
		}
		if g.AddNode(n) {
			nodes++
		}
	}
	for _, e := range delta.Edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) || g.HasEdge(e.Source, e.Target, e.Role) {
			continue
		}
		g.Edges = append(g.Edges, e)
		edges++
	}
	return nodes, edges
}
