package checker

import (
	"fmt"

	"github.com/Harshitk-cp/lide/internal/domain"
)

const checkerVersion = "0.1.0"

type subjectPredicate struct {
	subject   string
	predicate string
}

type propertyValue struct {
	value   string
	eventID string
}

type frameNode struct {
	id    string
	frame string
}

// Continuity groups assertions by canonical subject and predicate and reports
// every later value that differs from the first value recorded under the same
// condition. Subjects are canonicalised by following one SameAs hop. Nodes are
// looked up by id within the assertion's frame, since ids repeat across the
// turns of a session graph.
func Continuity(g *domain.MeaningGraph) []domain.Diagnostic {
	canonical := make(map[frameNode]frameNode)
	for _, e := range g.EdgesWithRole(domain.RoleSameAs) {
		src, tgt := e.EndpointFrames()
		canonical[frameNode{e.Source, src}] = frameNode{e.Target, tgt}
	}

	resolve := func(a domain.Assertion) string {
		var n *domain.Node
		if a.SubjectID != "" {
			n, _ = g.NodeInFrame(a.SubjectID, a.FrameID)
		}
		if n == nil {
			for i := range g.Nodes {
				if g.Nodes[i].Label == a.Subject {
					n = &g.Nodes[i]
					break
				}
			}
		}
		if n == nil {
			return a.Subject
		}
		if target, ok := canonical[frameNode{n.ID, n.Properties.FrameID}]; ok {
			if t, ok := g.NodeInFrame(target.id, target.frame); ok {
				return t.Label
			}
		}
		return a.Subject
	}

	firsts := make(map[subjectPredicate]map[string]propertyValue)
	var diags []domain.Diagnostic

	for _, a := range g.Assertions {
		if a.Object == "" {
			continue
		}
		key := subjectPredicate{resolve(a), a.Predicate}
		byCondition, ok := firsts[key]
		if !ok {
			byCondition = make(map[string]propertyValue)
			firsts[key] = byCondition
		}
		first, ok := byCondition[a.Condition]
		if !ok {
			byCondition[a.Condition] = propertyValue{value: a.Object, eventID: a.SourceEventID}
			continue
		}
		if first.value == a.Object {
			continue
		}
		diags = append(diags, domain.Diagnostic{
			Kind:     domain.DiagnosticContradiction,
			Severity: domain.SeverityError,
			Message: fmt.Sprintf("Continuity Error: %s has '%s' as '%s' and later as '%s'.",
				key.subject, key.predicate, first.value, a.Object),
			NodeID: a.SourceEventID,
			Provenance: []domain.Provenance{{
				EngineID:      "continuity-checker",
				EngineVersion: checkerVersion,
				Confidence:    1.0,
				Receipts: []map[string]any{{
					"first_event": first.eventID,
					"later_event": a.SourceEventID,
					"subject":     key.subject,
					"property":    key.predicate,
					"first_value": first.value,
					"later_value": a.Object,
				}},
			}},
		})
	}
	return diags
}
