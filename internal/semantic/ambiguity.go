package semantic

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

const (
	ambiguityEngineID = "rule-based-ambiguity"
	mentalStateNodeID = "mental_state"
)

var vagueTerms = []string{"uneasy", "somewhat", "possibly", "maybe"}

// DetectAmbiguities finds text-level vagueness and the literal versus
// figurative reading of a transformation into an insect. Set ids continue the
// numbering of sets already in g.
func DetectAmbiguities(text, docID string, g *domain.MeaningGraph) ([]domain.AmbiguitySet, []domain.Diagnostic) {
	lower := strings.ToLower(text)
	prov := domain.Provenance{
		SourceDoc:     docID,
		EngineID:      ambiguityEngineID,
		EngineVersion: engineVersion,
		Confidence:    1.0,
	}

	var diags []domain.Diagnostic
	for _, term := range vagueTerms {
		start := strings.Index(lower, term)
		if start < 0 {
			continue
		}
		end := start + len(term)
		p := prov
		p.Span = &domain.Span{Start: start, End: end, Text: text[start:end]}
		diags = append(diags, domain.Diagnostic{
			Kind:       domain.DiagnosticVagueness,
			Severity:   domain.SeverityInfo,
			Message:    fmt.Sprintf("Term '%s' is potentially vague.", term),
			Provenance: []domain.Provenance{p},
		})
	}

	var sets []domain.AmbiguitySet
	if strings.Contains(lower, "transformed") && strings.Contains(lower, "insect") {
		sets = append(sets, figurativeTransformation(g, len(g.AmbiguitySets)+1, prov))
	}
	return sets, diags
}

func figurativeTransformation(g *domain.MeaningGraph, n int, prov domain.Provenance) domain.AmbiguitySet {
	var eventID, insectID string
	for _, node := range g.Nodes {
		label := strings.ToLower(node.Label)
		switch {
		case eventID == "" && (node.Type == domain.NodeEvent || node.Type == domain.NodeGoal) && strings.Contains(label, "transform"):
			eventID = node.ID
		case insectID == "" && node.Type == domain.NodeEntity && strings.Contains(label, "insect"):
			insectID = node.ID
		}
	}

	var literal, figurative domain.GraphDelta
	figurative.Nodes = []domain.Node{{
		ID:    mentalStateNodeID,
		Type:  domain.NodeEntity,
		Label: "mental state",
	}}
	if eventID != "" {
		figurative.Edges = []domain.Edge{{Source: eventID, Target: mentalStateNodeID, Role: domain.RoleRefersTo}}
		if insectID != "" {
			literal.Edges = []domain.Edge{{Source: eventID, Target: insectID, Role: domain.RoleTheme}}
		}
	}

	return domain.AmbiguitySet{
		ID:        fmt.Sprintf("amb_%d", n),
		Dimension: domain.AmbiguityFigure,
		Alternatives: []domain.AmbiguityAlternative{
			{Label: "Literal Transformation", Weight: 0.4, Delta: literal},
			{Label: "Figurative (Metaphor)", Weight: 0.6, Delta: figurative},
		},
		Provenance: []domain.Provenance{prov},
	}
}
