package checker

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

var (
	vaguePronouns = map[string]bool{"it": true, "this": true, "that": true, "these": true, "those": true, "they": true}
	genericNouns  = map[string]bool{
		"thing": true, "stuff": true, "item": true, "object": true, "file": true,
		"code": true, "function": true, "class": true, "data": true,
	}
)

// Ambiguity flags unresolved pronouns and bare generic nouns among entity
// nodes. A pronoun counts as resolved once it has an outgoing Refers_to or
// SameAs edge from its own frame. Edges without recorded frames resolve the id
// in every frame.
func Ambiguity(g *domain.MeaningGraph) []domain.Diagnostic {
	resolved := make(map[frameNode]bool)
	for _, e := range g.Edges {
		if domain.IdentityRoles[e.Role] {
			src, _ := e.EndpointFrames()
			resolved[frameNode{e.Source, src}] = true
		}
	}

	var diags []domain.Diagnostic
	for _, n := range g.NodesOfType(domain.NodeEntity) {
		word := strings.ToLower(n.Label)
		switch {
		case vaguePronouns[word]:
			if resolved[frameNode{n.ID, n.Properties.FrameID}] || resolved[frameNode{n.ID, ""}] {
				continue
			}
			diags = append(diags, ambiguityDiagnostic(n, domain.SeverityWarning,
				fmt.Sprintf("Ambiguous pronoun '%s'. What does '%s' refer to?", n.Label, n.Label)))
		case genericNouns[word]:
			diags = append(diags, ambiguityDiagnostic(n, domain.SeverityInfo,
				fmt.Sprintf("Vague term '%s'. Which specific %s do you mean?", n.Label, n.Label)))
		}
	}
	return diags
}

func ambiguityDiagnostic(n domain.Node, sev domain.Severity, msg string) domain.Diagnostic {
	return domain.Diagnostic{
		Kind:     domain.DiagnosticAmbiguity,
		Severity: sev,
		Message:  msg,
		NodeID:   n.ID,
		Provenance: []domain.Provenance{{
			EngineID:      "ambiguity-checker",
			EngineVersion: checkerVersion,
			Confidence:    1.0,
			Span:          n.Span,
		}},
	}
}
