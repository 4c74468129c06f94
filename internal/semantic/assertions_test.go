package semantic

import (
	"testing"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/nlp/nlptest"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FromParses(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.Assertion
	}{
		{
			name: "copula with adjective",
			text: nlptest.BuildingTall,
			want: []domain.Assertion{{
				Subject: "building", SubjectID: "tok_1", Predicate: "be", Object: "tall",
				SourceEventID: "evt_2", Confidence: 1.0,
			}},
		},
		{
			name: "condition recorded",
			text: nlptest.LeaveIfRains,
			want: []domain.Assertion{{
				Subject: "We", SubjectID: "tok_0", Predicate: "leave", Object: "house",
				Condition: "rains", SourceEventID: "evt_1", Confidence: 1.0,
			}},
		},
		{
			name: "modal auxiliary",
			text: nlptest.AppShouldBeSlow,
			want: []domain.Assertion{{
				Subject: "application", SubjectID: "tok_1", Predicate: "be", Object: "slow",
				Modality: "should", SourceEventID: "evt_3", Confidence: 1.0,
			}},
		},
		{
			name: "goal without agent",
			text: nlptest.WantFastApp,
			want: []domain.Assertion{{
				Subject: "Unknown", Predicate: "build", Object: "fast application",
				SourceEventID: "evt_3", Confidence: 1.0,
			}},
		},
		{
			name: "location used when no patient",
			text: nlptest.WorksInParis,
			want: []domain.Assertion{{
				Subject: "She", SubjectID: "tok_0", Predicate: "work", Object: "Paris",
				SourceEventID: "evt_1", Confidence: 1.0,
			}},
		},
		{
			name: "events without objects are skipped",
			text: nlptest.MightNotCome,
			want: []domain.Assertion{},
		},
	}

	x := NewAssertionExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.Extract(build(t, tt.text, "doc"))
			for _, a := range got {
				assert.Equal(t, FrameID("doc"), a.FrameID)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(domain.Assertion{}, "FrameID")); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	x := NewAssertionExtractor(nil)
	for _, text := range []string{nlptest.BuildingTall, nlptest.LeaveIfRains, nlptest.OpenedThenLeft, nlptest.GregorInsect} {
		first := x.Extract(build(t, text, "same-doc"))
		second := x.Extract(build(t, text, "same-doc"))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%q: extraction not deterministic (-first +second):\n%s", text, diff)
		}
	}
}

func TestExtract_Fallback(t *testing.T) {
	g := &domain.MeaningGraph{
		Nodes: []domain.Node{
			{ID: "e1", Type: domain.NodeEvent, Label: "cut"},
			{ID: "a", Type: domain.NodeEntity, Label: "chef"},
			{ID: "k", Type: domain.NodeEntity, Label: "knife"},
		},
		Edges: []domain.Edge{
			{Source: "e1", Target: "a", Role: domain.RoleAgent},
			{Source: "e1", Target: "k", Role: domain.RoleInstrument},
		},
	}

	got := NewAssertionExtractor(AnyArgumentFallback).Extract(g)
	require.Len(t, got, 1)
	assert.Equal(t, "knife", got[0].Object)
	assert.Equal(t, "chef", got[0].Subject)

	assert.Empty(t, NewAssertionExtractor(NoFallback).Extract(g))
}

func TestExtract_ModifiersAndMissingNodes(t *testing.T) {
	g := &domain.MeaningGraph{
		Nodes: []domain.Node{
			{ID: "e1", Type: domain.NodeEvent, Label: "have"},
			{ID: "e2", Type: domain.NodeEvent, Label: "see"},
			{ID: "s", Type: domain.NodeEntity, Label: "Gregor"},
			{ID: "o", Type: domain.NodeEntity, Label: "eyes"},
			{ID: "m", Type: domain.NodeEntity, Label: "blue", Properties: domain.NodeProperties{POS: "ADJ"}},
		},
		Edges: []domain.Edge{
			{Source: "e1", Target: "s", Role: domain.RoleAgent},
			{Source: "e1", Target: "o", Role: domain.RolePatient},
			{Source: "o", Target: "m", Role: domain.RoleTheme},
			{Source: "e2", Target: "missing", Role: domain.RolePatient},
		},
	}

	got := NewAssertionExtractor(nil).Extract(g)
	require.Len(t, got, 1)
	assert.Equal(t, "blue eyes", got[0].Object)
	assert.Equal(t, "e1", got[0].SourceEventID)
}
