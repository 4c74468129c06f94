package augment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const gregorGraph = `Sure, here it is:
{"nodes":[
  {"id":"g1","label":"Gregor","type":"Entity"},
  {"id":"g2","label":"transformed","type":"Event","span":{"start":7,"end":18,"text":"transformed"}},
  {"id":"g3","label":"Dream","type":"Mood"}
],
"edges":[
  {"source":"g2","target":"g1","role":"Agent"},
  {"source":"g2","target":"g1","role":"Teleports"}
]}
Hope that helps.`

func TestParseGraph(t *testing.T) {
	delta, err := ParseGraph(gregorGraph, "Gregor transformed.", "doc1")
	require.NoError(t, err)

	require.Len(t, delta.Nodes, 2, "unknown node types are dropped")
	assert.Equal(t, "g1", delta.Nodes[0].ID)
	require.NotNil(t, delta.Nodes[1].Span)
	assert.Equal(t, 7, delta.Nodes[1].Span.Start)

	require.Len(t, delta.Edges, 1, "unknown roles are dropped")
	e := delta.Edges[0]
	assert.Equal(t, domain.RoleAgent, e.Role)
	assert.Equal(t, EngineID, e.Provenance[0].EngineID)
	assert.Equal(t, "doc1", e.Provenance[0].SourceDoc)
}

func TestParseGraph_TestCases(t *testing.T) {
	raw := `{"test_cases":{
		"gregor":{"nodes":[{"id":"g","label":"Gregor","type":"Entity"}],"edges":[]},
		"eyes":{"nodes":[{"id":"e","label":"eyes","type":"Entity"}],"edges":[]}
	}}`

	delta, err := ParseGraph(raw, "When Gregor Samsa woke", "d")
	require.NoError(t, err)
	require.Len(t, delta.Nodes, 1)
	assert.Equal(t, "g", delta.Nodes[0].ID)

	delta, err = ParseGraph(raw, "My eyes are blue. My eyes are brown.", "d")
	require.NoError(t, err)
	require.Len(t, delta.Nodes, 1)
	assert.Equal(t, "e", delta.Nodes[0].ID)

	delta, err = ParseGraph(raw, "Nothing relevant.", "d")
	require.NoError(t, err)
	assert.True(t, delta.Empty())
}

func TestParseGraph_Errors(t *testing.T) {
	for _, raw := range []string{"", "no json here", "} backwards {", `{"nodes": [}`} {
		_, err := ParseGraph(raw, "text", "d")
		assert.Error(t, err, raw)
	}
	_, err := ParseGraph("nothing", "text", "d")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestPropose(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = gregorGraph
	a := NewAugmenter(mock, time.Second, zap.NewNop())

	delta := a.Propose(context.Background(), "Gregor transformed.", "doc1")
	assert.Len(t, delta.Nodes, 2)
	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0], "Gregor transformed.")
}

func TestPropose_FailSoft(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Error = errors.New("provider down")
	delta := NewAugmenter(mock, time.Second, zap.NewNop()).Propose(context.Background(), "x", "d")
	assert.True(t, delta.Empty())

	mock.Error = nil
	mock.Response = "I could not do it."
	delta = NewAugmenter(mock, time.Second, zap.NewNop()).Propose(context.Background(), "x", "d")
	assert.True(t, delta.Empty())
}

func TestPropose_Disabled(t *testing.T) {
	var nilAugmenter *Augmenter
	assert.False(t, nilAugmenter.Enabled())
	assert.True(t, nilAugmenter.Propose(context.Background(), "x", "d").Empty())
	assert.True(t, NewAugmenter(nil, 0, zap.NewNop()).Propose(context.Background(), "x", "d").Empty())
}

type blockingClient struct{}

func (blockingClient) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestPropose_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := NewAugmenter(blockingClient{}, 50*time.Millisecond, zap.NewNop())
	start := time.Now()
	delta := a.Propose(context.Background(), "x", "d")
	assert.True(t, delta.Empty())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestMerge(t *testing.T) {
	g := domain.NewMeaningGraph()
	g.Nodes = append(g.Nodes, domain.Node{ID: "evt_1", Type: domain.NodeEvent, Label: "woke"})

	delta := &domain.GraphDelta{
		Nodes: []domain.Node{
			{ID: "evt_1", Type: domain.NodeEvent, Label: "replaced?"},
			{ID: "g1", Type: domain.NodeEntity, Label: "Gregor"},
		},
		Edges: []domain.Edge{
			{Source: "evt_1", Target: "g1", Role: domain.RoleAgent},
			{Source: "evt_1", Target: "g1", Role: domain.RoleAgent},
			{Source: "evt_1", Target: "missing", Role: domain.RoleTheme},
		},
	}

	nodes, edges := Merge(g, delta, "ctx_1")
	assert.Equal(t, 1, nodes)
	assert.Equal(t, 1, edges)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "woke", g.Nodes[0].Label, "existing nodes are never replaced")
	assert.Equal(t, "ctx_1", g.Nodes[1].Properties.FrameID)

	nodes, edges = Merge(g, nil, "ctx_1")
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}
