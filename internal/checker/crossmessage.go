package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

type labelledNode struct {
	ordinal int
	id      string
	label   string
}

// CrossMessage finds antonym pairs whose words appear in different entity or
// event nodes anywhere in the graph. Node ids can repeat across turns of a
// session, so nodes are told apart by their position in the graph.
func CrossMessage(g *domain.MeaningGraph) []domain.Diagnostic {
	byWord := make(map[string][]labelledNode)
	for i, n := range g.Nodes {
		if n.Type != domain.NodeEntity && n.Type != domain.NodeEvent {
			continue
		}
		label := strings.ToLower(n.Label)
		for w := range labelWords(label, 2) {
			byWord[w] = append(byWord[w], labelledNode{ordinal: i, id: n.ID, label: label})
		}
	}

	var diags []domain.Diagnostic
	for _, p := range crossMessagePairs {
		first, second := byWord[p.a], byWord[p.b]
		if len(first) == 0 || len(second) == 0 || sameNodes(first, second) {
			continue
		}
		diags = append(diags, domain.Diagnostic{
			Kind:     domain.DiagnosticContradiction,
			Severity: domain.SeverityWarning,
			Message: fmt.Sprintf("Cross-message contradiction: You mentioned both '%s' and '%s' in different messages (%s)",
				p.a, p.b, quotedLabels(first, second)),
			NodeID: first[0].id,
			Provenance: []domain.Provenance{{
				EngineID:      "cross-message-checker",
				EngineVersion: checkerVersion,
				Confidence:    0.8,
			}},
		})
	}
	return diags
}

func sameNodes(a, b []labelledNode) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int]bool, len(a))
	for _, n := range a {
		set[n.ordinal] = true
	}
	for _, n := range b {
		if !set[n.ordinal] {
			return false
		}
	}
	return true
}

func quotedLabels(groups ...[]labelledNode) string {
	seen := make(map[string]bool)
	var labels []string
	for _, g := range groups {
		for _, n := range g {
			if !seen[n.label] {
				seen[n.label] = true
				labels = append(labels, n.label)
			}
		}
	}
	sort.Strings(labels)
	for i, l := range labels {
		labels[i] = "'" + l + "'"
	}
	return strings.Join(labels, ", ")
}
