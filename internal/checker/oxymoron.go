package checker

import (
	"fmt"

	"github.com/Harshitk-cp/lide/internal/domain"
)

// Oxymoron reports node labels that contain both words of an antonym pair,
// such as "tall short building" or "tall-short".
func Oxymoron(g *domain.MeaningGraph) []domain.Diagnostic {
	var diags []domain.Diagnostic
	for _, n := range g.Nodes {
		words := labelWords(n.Label, 1)
		for _, p := range oxymoronPairs {
			if !words[p.a] || !words[p.b] {
				continue
			}
			diags = append(diags, domain.Diagnostic{
				Kind:     domain.DiagnosticContradiction,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("The phrase '%s' contains contradictory terms (%s and %s).", n.Label, p.a, p.b),
				NodeID:   n.ID,
				Provenance: []domain.Provenance{{
					EngineID:      "oxymoron-checker",
					EngineVersion: checkerVersion,
					Confidence:    0.9,
					Span:          n.Span,
					Receipts:      []map[string]any{{"terms": []string{p.a, p.b}}},
				}},
			})
		}
	}
	return diags
}
