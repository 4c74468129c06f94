package semantic

import (
	"testing"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/nlp/nlptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAmbiguities_Vagueness(t *testing.T) {
	g := build(t, nlptest.MaybeUneasy, "doc-vague")

	sets, diags := DetectAmbiguities(nlptest.MaybeUneasy, "doc-vague", g)
	assert.Empty(t, sets)
	require.Len(t, diags, 2)

	assert.Equal(t, domain.DiagnosticVagueness, diags[0].Kind)
	assert.Equal(t, domain.SeverityInfo, diags[0].Severity)
	assert.Equal(t, "Term 'uneasy' is potentially vague.", diags[0].Message)
	require.Len(t, diags[0].Provenance, 1)
	assert.Equal(t, &domain.Span{Start: 15, End: 21, Text: "uneasy"}, diags[0].Provenance[0].Span)
	assert.Equal(t, "doc-vague", diags[0].Provenance[0].SourceDoc)

	assert.Equal(t, &domain.Span{Start: 0, End: 5, Text: "Maybe"}, diags[1].Provenance[0].Span)
}

func TestDetectAmbiguities_Figurative(t *testing.T) {
	g := build(t, nlptest.GregorInsect, "doc-kafka")

	sets, diags := DetectAmbiguities(nlptest.GregorInsect, "doc-kafka", g)
	assert.Empty(t, diags)
	require.Len(t, sets, 1)

	set := sets[0]
	assert.Equal(t, "amb_1", set.ID)
	assert.Equal(t, domain.AmbiguityFigure, set.Dimension)
	require.Len(t, set.Alternatives, 2)

	literal, figurative := set.Alternatives[0], set.Alternatives[1]
	assert.InDelta(t, 0.4, literal.Weight, 1e-9)
	assert.InDelta(t, 0.6, figurative.Weight, 1e-9)
	assert.Equal(t, []domain.Edge{{Source: "evt_1", Target: "tok_4", Role: domain.RoleTheme}}, literal.Delta.Edges)

	require.Len(t, figurative.Delta.Nodes, 1)
	assert.Equal(t, "mental state", figurative.Delta.Nodes[0].Label)
	assert.Equal(t, []domain.Edge{{Source: "evt_1", Target: "mental_state", Role: domain.RoleRefersTo}}, figurative.Delta.Edges)
}

func TestDetectAmbiguities_NumbersAfterExistingSets(t *testing.T) {
	g := build(t, nlptest.GregorInsect, "doc")
	g.AmbiguitySets = append(g.AmbiguitySets, domain.AmbiguitySet{ID: "amb_1"})

	sets, _ := DetectAmbiguities(nlptest.GregorInsect, "doc", g)
	require.Len(t, sets, 1)
	assert.Equal(t, "amb_2", sets[0].ID)
}

func TestDetectAmbiguities_PlainText(t *testing.T) {
	sets, diags := DetectAmbiguities("The door is open.", "doc", domain.NewMeaningGraph())
	assert.Empty(t, sets)
	assert.Empty(t, diags)
}
