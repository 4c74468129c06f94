package semantic

import (
	"testing"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContradictions(t *testing.T) {
	tests := []struct {
		name       string
		assertions []domain.Assertion
		wantReason []string
	}{
		{
			name: "differing objects",
			assertions: []domain.Assertion{
				{Subject: "Building", Predicate: "be", Object: "tall"},
				{Subject: "building", Predicate: "BE", Object: "short"},
			},
			wantReason: []string{"Conflicting objects: 'tall' vs 'short'"},
		},
		{
			name: "case-insensitive equal objects",
			assertions: []domain.Assertion{
				{Subject: "app", Predicate: "be", Object: "Fast"},
				{Subject: "app", Predicate: "be", Object: "fast"},
			},
		},
		{
			name: "different conditions",
			assertions: []domain.Assertion{
				{Subject: "we", Predicate: "go", Object: "park", Condition: "sun"},
				{Subject: "we", Predicate: "go", Object: "home", Condition: "rain"},
			},
		},
		{
			name: "missing object is no signal",
			assertions: []domain.Assertion{
				{Subject: "he", Predicate: "come"},
				{Subject: "he", Predicate: "come", Object: "home"},
			},
		},
		{
			name: "every later sighting compared with the first",
			assertions: []domain.Assertion{
				{Subject: "door", Predicate: "be", Object: "open"},
				{Subject: "door", Predicate: "be", Object: "closed"},
				{Subject: "door", Predicate: "be", Object: "locked"},
			},
			wantReason: []string{
				"Conflicting objects: 'open' vs 'closed'",
				"Conflicting objects: 'open' vs 'locked'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindContradictions(tt.assertions)
			require.Len(t, got, len(tt.wantReason))
			for i, c := range got {
				assert.Equal(t, domain.ConflictDirect, c.Type)
				assert.Equal(t, tt.wantReason[i], c.Reason)
			}
		})
	}
}

func TestFindOpenQuestions(t *testing.T) {
	assertions := []domain.Assertion{
		{Subject: "We", Predicate: "leave", Object: "house", Condition: "rains"},
		{Subject: "He", Predicate: "come", Object: "home", Modality: "Might"},
		{Subject: "app", Predicate: "be", Object: "slow", Modality: "should"},
		{Subject: "she", Predicate: "work", Object: "Paris", Modality: "could", Condition: "hired"},
	}

	got := FindOpenQuestions(assertions)
	require.Len(t, got, 3)

	assert.Equal(t, domain.QuestionConditionalAssumption, got[0].Type)
	assert.Equal(t, "Is it true that 'rains'?", got[0].Question)

	assert.Equal(t, domain.QuestionUncertainty, got[1].Type)
	assert.Equal(t, "Verify if 'He' really 'come' 'home'.", got[1].Question)

	// A condition takes precedence over an uncertain modal.
	assert.Equal(t, domain.QuestionConditionalAssumption, got[2].Type)
	assert.Equal(t, "she", got[2].Assertion.Subject)
}

func TestAnalyze(t *testing.T) {
	g := domain.NewMeaningGraph()
	report := Analyze(g)
	assert.NotNil(t, report.Conflicts)
	assert.NotNil(t, report.OpenQuestions)
	assert.Empty(t, report.Conflicts)
}
