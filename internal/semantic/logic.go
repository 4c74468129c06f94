package semantic

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

var uncertainModalities = map[string]bool{"might": true, "may": true, "could": true, "assume": true}

type assertionKey struct {
	subject   string
	predicate string
}

// FindContradictions compares every assertion with the first one seen for the
// same lowercase subject and predicate. Differing non-empty objects under an
// identical condition are a direct conflict.
func FindContradictions(assertions []domain.Assertion) []domain.Conflict {
	conflicts := []domain.Conflict{}
	seen := make(map[assertionKey]domain.Assertion)

	for _, a := range assertions {
		key := assertionKey{strings.ToLower(a.Subject), strings.ToLower(a.Predicate)}
		first, ok := seen[key]
		if !ok {
			seen[key] = a
			continue
		}
		if first.Object == "" || a.Object == "" {
			continue
		}
		if strings.EqualFold(first.Object, a.Object) || first.Condition != a.Condition {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			Type:   domain.ConflictDirect,
			First:  first,
			Second: a,
			Reason: fmt.Sprintf("Conflicting objects: '%s' vs '%s'", first.Object, a.Object),
		})
	}
	return conflicts
}

// FindOpenQuestions flags conditional assertions and those qualified by an
// uncertainty modal.
func FindOpenQuestions(assertions []domain.Assertion) []domain.OpenQuestion {
	questions := []domain.OpenQuestion{}
	for _, a := range assertions {
		switch {
		case a.Condition != "":
			questions = append(questions, domain.OpenQuestion{
				Type:      domain.QuestionConditionalAssumption,
				Assertion: a,
				Question:  fmt.Sprintf("Is it true that '%s'?", a.Condition),
			})
		case uncertainModalities[strings.ToLower(a.Modality)]:
			questions = append(questions, domain.OpenQuestion{
				Type:      domain.QuestionUncertainty,
				Assertion: a,
				Question:  fmt.Sprintf("Verify if '%s' really '%s' '%s'.", a.Subject, a.Predicate, a.Object),
			})
		}
	}
	return questions
}

func Analyze(g *domain.MeaningGraph) domain.LogicReport {
	return domain.LogicReport{
		Conflicts:     FindContradictions(g.Assertions),
		OpenQuestions: FindOpenQuestions(g.Assertions),
	}
}
