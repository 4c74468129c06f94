package interpret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/nlp/nlptest"
	"github.com/Harshitk-cp/lide/internal/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func diagnosticsGraph() *domain.MeaningGraph {
	g := domain.NewMeaningGraph()
	g.Diagnostics = []domain.Diagnostic{
		{Kind: domain.DiagnosticContradiction, Severity: domain.SeverityError, Message: "Continuity Error: x"},
		{Kind: domain.DiagnosticContradiction, Severity: domain.SeverityWarning, Message: "oxymoron"},
		{Kind: domain.DiagnosticAmbiguity, Severity: domain.SeverityWarning, Message: "Ambiguous pronoun 'it'."},
		{Kind: domain.DiagnosticVagueness, Severity: domain.SeverityInfo, Message: "vague"},
	}
	return g
}

func severities(g *domain.MeaningGraph) []domain.Severity {
	out := make([]domain.Severity, 0, len(g.Diagnostics))
	for _, d := range g.Diagnostics {
		out = append(out, d.Severity)
	}
	return out
}

func TestInterpret_Map(t *testing.T) {
	in := NewInterpreter(nil, zap.NewNop())
	g := diagnosticsGraph()

	_, err := in.Interpret(context.Background(), domain.ModeMap, g, domain.PluginContext{})
	require.NoError(t, err)
	first := severities(g)
	assert.Equal(t, []domain.Severity{
		domain.SeverityWarning, domain.SeverityWarning, domain.SeverityWarning, domain.SeverityInfo,
	}, first)

	_, err = in.Interpret(context.Background(), domain.ModeMap, g, domain.PluginContext{})
	require.NoError(t, err)
	assert.Equal(t, first, severities(g), "Map must be idempotent")
}

func TestInterpret_EmptyModeIsMap(t *testing.T) {
	in := NewInterpreter(nil, zap.NewNop())
	g := diagnosticsGraph()
	_, err := in.Interpret(context.Background(), "", g, domain.PluginContext{})
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityWarning, g.Diagnostics[0].Severity)
}

func TestInterpret_Fiction(t *testing.T) {
	in := NewInterpreter(nil, zap.NewNop())
	g := diagnosticsGraph()

	for range 2 {
		_, err := in.Interpret(context.Background(), domain.ModeFiction, g, domain.PluginContext{})
		require.NoError(t, err)
	}

	assert.Equal(t, domain.SeverityInfo, g.Diagnostics[0].Severity)
	assert.Equal(t, "[Narrative] Continuity Error: x", g.Diagnostics[0].Message)
	assert.Equal(t, "[Narrative] oxymoron", g.Diagnostics[1].Message)
	assert.Equal(t, domain.SeverityWarning, g.Diagnostics[2].Severity, "ambiguity untouched")
	assert.Equal(t, "Ambiguous pronoun 'it'.", g.Diagnostics[2].Message)
}

func TestInterpret_UnknownMode(t *testing.T) {
	in := NewInterpreter(nil, zap.NewNop())
	_, err := in.Interpret(context.Background(), "Dream", domain.NewMeaningGraph(), domain.PluginContext{})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

type stubPlugin struct {
	id     string
	result *domain.PluginResult
	err    error
	calls  int
}

func (p *stubPlugin) ID() string      { return p.id }
func (p *stubPlugin) Version() string { return "test" }
func (p *stubPlugin) Run(_ context.Context, _ *domain.MeaningGraph, _ domain.PluginContext) (*domain.PluginResult, error) {
	p.calls++
	return p.result, p.err
}

func TestInterpret_TruthMergesPluginOutput(t *testing.T) {
	failing := &stubPlugin{id: "broken", err: errors.New("boom")}
	adding := &stubPlugin{id: "adder", result: &domain.PluginResult{
		Diagnostics: []domain.Diagnostic{{Kind: domain.DiagnosticKnowledgeGap, Severity: domain.SeverityWarning, Message: "gap"}},
		GraphUpdates: &domain.GraphDelta{
			Nodes: []domain.Node{{ID: "n1", Type: domain.NodeEntity, Label: "new"}, {ID: "n1", Type: domain.NodeEntity, Label: "dup"}},
			Edges: []domain.Edge{{Source: "n1", Target: "n1", Role: domain.RoleSupport}},
		},
		KnowledgeValidations: []domain.KnowledgeValidation{{CheckType: "plausibility", Verdict: "OK"}},
	}}
	in := NewInterpreter(NewRegistry(failing, adding), zap.NewNop())

	g := domain.NewMeaningGraph()
	validations, err := in.Interpret(context.Background(), domain.ModeTruth, g, domain.PluginContext{DocID: "d"})
	require.NoError(t, err)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, adding.calls)
	assert.Len(t, g.Diagnostics, 1)
	assert.Len(t, g.Nodes, 1)
	assert.Len(t, g.Edges, 1)
	assert.Len(t, validations, 1)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubPlugin{id: "b"})
	r.Register(&stubPlugin{id: "a"})
	replacement := &stubPlugin{id: "b"}
	r.Register(replacement)

	assert.Equal(t, []domain.PluginInfo{{ID: "b", Version: "test"}, {ID: "a", Version: "test"}}, r.List())

	got, ok := r.Get("b")
	require.True(t, ok)
	assert.Same(t, replacement, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func buildGraph(t *testing.T, text string) *domain.MeaningGraph {
	t.Helper()
	doc := nlptest.Parse(text)
	require.NotNil(t, doc)
	return semantic.NewBuilder(zap.NewNop()).Build(doc, "doc")
}

func TestTruthChecker_DefaultKnowledgeBase(t *testing.T) {
	kb, err := LoadKnowledgeBase("")
	require.NoError(t, err)
	in := NewInterpreter(NewRegistry(NewTruthChecker(kb)), zap.NewNop())

	g := buildGraph(t, nlptest.GregorInsect)
	validations, err := in.Interpret(context.Background(), domain.ModeTruth, g, domain.PluginContext{DocID: "kafka"})
	require.NoError(t, err)

	require.Len(t, g.Diagnostics, 1)
	d := g.Diagnostics[0]
	assert.Equal(t, domain.DiagnosticKnowledgeGap, d.Kind)
	assert.Equal(t, "Validation Warning: Humans cannot biologically transform into insects.", d.Message)
	assert.Equal(t, "kafka", d.Provenance[0].SourceDoc)
	assert.Equal(t, "human_transform_insect", d.Provenance[0].Receipts[0]["kb_key"])

	require.Len(t, validations, 1)
	assert.Equal(t, "Implausible", validations[0].Verdict)
}

func TestTruthChecker_NoMatch(t *testing.T) {
	kb, err := LoadKnowledgeBase("")
	require.NoError(t, err)
	res, err := NewTruthChecker(kb).Run(context.Background(), buildGraph(t, nlptest.BuildingTall), domain.PluginContext{})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestLoadKnowledgeBase_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - key: stone_speaks
    event: Say
    target: stone
    premise: Stones do not speak.
    verdict: Implausible
`), 0o600))

	kb, err := LoadKnowledgeBase(path)
	require.NoError(t, err)
	require.Len(t, kb.Rules, 1)
	assert.Equal(t, "say", kb.Rules[0].Event)
	assert.Equal(t, "plausibility", kb.Rules[0].CheckType)
	assert.Equal(t, engineVersion, kb.Version)

	_, err = ParseKnowledgeBase([]byte("rules:\n  - key: broken\n"))
	assert.Error(t, err)

	_, err = LoadKnowledgeBase(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDiscourseMarker(t *testing.T) {
	g := buildGraph(t, nlptest.FellBecause)

	res, err := NewDiscourseMarker().Run(context.Background(), g, domain.PluginContext{DocID: "doc"})
	require.NoError(t, err)
	require.NotNil(t, res.GraphUpdates)
	require.Len(t, res.GraphUpdates.Edges, 1)

	e := res.GraphUpdates.Edges[0]
	assert.Equal(t, "evt_4", e.Source)
	assert.Equal(t, "evt_1", e.Target)
	assert.Equal(t, domain.RoleCause, e.Role)
}

func TestDiscourseMarker_ForwardDirection(t *testing.T) {
	g := buildGraph(t, nlptest.TriedButFailed)
	// "but" is a coordinator, so give it a node the way an augmented graph would.
	g.Nodes = append(g.Nodes, domain.Node{
		ID: "tok_2", Type: domain.NodeEntity, Label: "but",
		Span: &domain.Span{Start: 8, End: 11, Text: "but"},
	})

	res, err := NewDiscourseMarker().Run(context.Background(), g, domain.PluginContext{})
	require.NoError(t, err)
	require.Len(t, res.GraphUpdates.Edges, 1)
	assert.Equal(t, "evt_1", res.GraphUpdates.Edges[0].Source)
	assert.Equal(t, "evt_4", res.GraphUpdates.Edges[0].Target)
	assert.Equal(t, domain.RoleContradiction, res.GraphUpdates.Edges[0].Role)
}

func TestDiscourseMarker_StaysInFrame(t *testing.T) {
	build := func(text, docID string) *domain.MeaningGraph {
		doc := nlptest.Parse(text)
		require.NotNil(t, doc)
		return semantic.NewBuilder(zap.NewNop()).Build(doc, docID)
	}

	tests := []struct {
		name  string
		turns []string
	}{
		{name: "marker turn first", turns: []string{nlptest.FellBecause, nlptest.TallShort}},
		{name: "marker turn last", turns: []string{nlptest.TallShort, nlptest.FellBecause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewMeaningGraph()
			var markerFrame string
			for i, text := range tt.turns {
				docID := fmt.Sprintf("turn-%d", i+1)
				g.Append(build(text, docID))
				if text == nlptest.FellBecause {
					markerFrame = semantic.FrameID(docID)
				}
			}

			res, err := NewDiscourseMarker().Run(context.Background(), g, domain.PluginContext{})
			require.NoError(t, err)
			require.Len(t, res.GraphUpdates.Edges, 1)

			e := res.GraphUpdates.Edges[0]
			assert.Equal(t, "evt_4", e.Source)
			assert.Equal(t, "evt_1", e.Target)
			src, tgt := e.EndpointFrames()
			assert.Equal(t, markerFrame, src)
			assert.Equal(t, markerFrame, tgt)
		})
	}
}
