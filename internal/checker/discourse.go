package checker

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

var discourseMarkers = map[string]domain.EdgeRole{
	"because":   domain.RoleCause,
	"since":     domain.RoleCause,
	"so":        domain.RoleCause,
	"therefore": domain.RoleCause,
	"but":       domain.RoleContrast,
	"however":   domain.RoleContrast,
	"although":  domain.RoleContrast,
	"though":    domain.RoleContrast,
	"then":      domain.RoleSequence,
	"after":     domain.RoleSequence,
	"before":    domain.RoleSequence,
}

// Discourse derives Cause, Contrast and Sequence edges between event nodes
// from discourse markers in the parse. A subordinating marker links the clause
// it introduces with that clause's governor, pointing from the main clause to
// the subordinate one except for "because", where the subordinate clause is
// the cause. A coordinating marker links the two conjuncts in order.
// The returned edges are not added to g.
func Discourse(g *domain.MeaningGraph, doc *domain.AnnotatedDoc) []domain.Edge {
	if doc == nil {
		return nil
	}

	var edges []domain.Edge
	for _, tok := range doc.Tokens {
		marker := strings.ToLower(tok.Text)
		role, ok := discourseMarkers[marker]
		if !ok || tok.Head == tok.Index {
			continue
		}
		head := doc.Tokens[tok.Head]

		switch tok.Dep {
		case "mark":
			sub, okSub := eventNode(g, head.Index)
			main, okMain := eventNode(g, head.Head)
			if !okSub || !okMain || sub.ID == main.ID {
				continue
			}
			source, target := main.ID, sub.ID
			if marker == "because" {
				source, target = sub.ID, main.ID
			}
			edges = append(edges, discourseEdge(source, target, role))

		case "cc":
			first, ok := eventNode(g, head.Index)
			if !ok {
				continue
			}
			for _, c := range doc.Children(head.Index) {
				if c.Dep != "conj" {
					continue
				}
				if second, ok := eventNode(g, c.Index); ok {
					edges = append(edges, discourseEdge(first.ID, second.ID, role))
				}
				break
			}
		}
	}
	return edges
}

func eventNode(g *domain.MeaningGraph, tokenIndex int) (*domain.Node, bool) {
	for _, id := range []string{fmt.Sprintf("evt_%d", tokenIndex), fmt.Sprintf("tok_%d", tokenIndex)} {
		if n, ok := g.Node(id); ok && (n.Type == domain.NodeEvent || n.Type == domain.NodeGoal) {
			return n, true
		}
	}
	return nil, false
}

func discourseEdge(source, target string, role domain.EdgeRole) domain.Edge {
	return domain.Edge{
		Source: source,
		Target: target,
		Role:   role,
		Provenance: []domain.Provenance{{
			EngineID:      "discourse-checker",
			EngineVersion: checkerVersion,
			Confidence:    0.8,
		}},
	}
}
