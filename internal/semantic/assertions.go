package semantic

import (
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

const unknownSubject = "Unknown"

// ObjectFallback picks an object edge for an event that has no Patient,
// Theme, Location or Time edge. It returns false when no edge qualifies.
type ObjectFallback func(edges []domain.Edge) (domain.Edge, bool)

// AnyArgumentFallback accepts the first edge that is not an Agent, Condition,
// Sequence or Support edge.
func AnyArgumentFallback(edges []domain.Edge) (domain.Edge, bool) {
	for _, e := range edges {
		switch e.Role {
		case domain.RoleAgent, domain.RoleCondition, domain.RoleSequence, domain.RoleSupport:
			continue
		}
		return e, true
	}
	return domain.Edge{}, false
}

// NoFallback disables the last-resort object search.
func NoFallback([]domain.Edge) (domain.Edge, bool) { return domain.Edge{}, false }

// AssertionExtractor flattens event and goal nodes into subject, predicate and
// object propositions.
type AssertionExtractor struct {
	fallback ObjectFallback
}

func NewAssertionExtractor(fallback ObjectFallback) *AssertionExtractor {
	if fallback == nil {
		fallback = AnyArgumentFallback
	}
	return &AssertionExtractor{fallback: fallback}
}

// Extract returns one assertion per event or goal node with a resolvable
// object, in node order. Edges pointing at missing nodes are ignored.
func (x *AssertionExtractor) Extract(g *domain.MeaningGraph) []domain.Assertion {
	nodes := make(map[string]domain.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, seen := nodes[n.ID]; !seen {
			nodes[n.ID] = n
		}
	}
	bySource := make(map[string][]domain.Edge)
	for _, e := range g.Edges {
		bySource[e.Source] = append(bySource[e.Source], e)
	}

	assertions := []domain.Assertion{}
	for _, n := range g.Nodes {
		if n.Type != domain.NodeEvent && n.Type != domain.NodeGoal {
			continue
		}
		edges := bySource[n.ID]

		objEdge, ok := firstWithRole(edges, domain.RolePatient, domain.RoleTheme)
		if !ok {
			objEdge, ok = firstWithRole(edges, domain.RoleLocation, domain.RoleTime)
		}
		if !ok {
			objEdge, ok = x.fallback(edges)
		}
		if !ok {
			continue
		}
		objNode, ok := nodes[objEdge.Target]
		if !ok {
			continue
		}

		a := domain.Assertion{
			Subject:       unknownSubject,
			Predicate:     n.Label,
			Object:        withModifiers(objNode, bySource[objNode.ID], nodes),
			Modality:      n.Properties.Auxiliary,
			SourceEventID: n.ID,
			FrameID:       n.Properties.FrameID,
			Confidence:    1.0,
		}
		if agent, ok := firstWithRole(edges, domain.RoleAgent); ok {
			if subj, ok := nodes[agent.Target]; ok {
				a.Subject = subj.Label
				a.SubjectID = subj.ID
			}
		}
		if cond, ok := firstWithRole(edges, domain.RoleCondition); ok {
			if c, ok := nodes[cond.Target]; ok {
				a.Condition = c.Label
			}
		}
		assertions = append(assertions, a)
	}
	return assertions
}

func firstWithRole(edges []domain.Edge, roles ...domain.EdgeRole) (domain.Edge, bool) {
	for _, e := range edges {
		for _, r := range roles {
			if e.Role == r {
				return e, true
			}
		}
	}
	return domain.Edge{}, false
}

// withModifiers prefixes adjective nodes hanging off obj to its label.
func withModifiers(obj domain.Node, outgoing []domain.Edge, nodes map[string]domain.Node) string {
	var mods []string
	for _, e := range outgoing {
		if m, ok := nodes[e.Target]; ok && m.Properties.POS == "ADJ" {
			mods = append(mods, m.Label)
		}
	}
	if len(mods) == 0 {
		return obj.Label
	}
	return strings.Join(mods, " ") + " " + obj.Label
}
