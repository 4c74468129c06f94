package semantic

import (
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

const corefEngineID = "heuristic-coref"

type pronounClass int

const (
	pronounMale pronounClass = iota
	pronounFemale
	pronounThing
	pronounPlural
)

func (c pronounClass) personal() bool {
	return c == pronounMale || c == pronounFemale
}

var pronouns = map[string]pronounClass{
	"he": pronounMale, "him": pronounMale, "his": pronounMale, "himself": pronounMale,
	"she": pronounFemale, "her": pronounFemale, "hers": pronounFemale, "herself": pronounFemale,
	"it": pronounThing, "its": pronounThing, "itself": pronounThing,
	"they": pronounPlural, "them": pronounPlural, "their": pronounPlural, "themselves": pronounPlural,
}

// IsPronoun reports whether label is one of the resolvable pronouns.
func IsPronoun(label string) bool {
	_, ok := pronouns[strings.ToLower(label)]
	return ok
}

// ResolveCoreference links pronoun entities to their nearest preceding
// antecedent with SameAs edges. Entity order is the graph's node order, which
// in an accumulated session graph is turn order. Edges already present are not
// duplicated, so the resolver can run again after every turn. Each edge
// records the frames of both endpoints, since ids repeat across turns.
func ResolveCoreference(g *domain.MeaningGraph) []domain.Edge {
	entities := g.NodesOfType(domain.NodeEntity)

	var added []domain.Edge
	for i, n := range entities {
		class, ok := pronouns[strings.ToLower(n.Label)]
		if !ok {
			continue
		}
		antecedent, found := findAntecedent(entities[:i], class)
		if !found || hasSameAs(g, n, antecedent) {
			continue
		}
		e := domain.Edge{
			Source: n.ID,
			Target: antecedent.ID,
			Role:   domain.RoleSameAs,
			Provenance: []domain.Provenance{{
				EngineID:      corefEngineID,
				EngineVersion: engineVersion,
				Confidence:    0.7,
				Receipts: []map[string]any{{
					domain.ReceiptSourceFrame: n.Properties.FrameID,
					domain.ReceiptTargetFrame: antecedent.Properties.FrameID,
				}},
			}},
		}
		g.Edges = append(g.Edges, e)
		added = append(added, e)
	}
	return added
}

func hasSameAs(g *domain.MeaningGraph, pronoun, antecedent domain.Node) bool {
	for _, e := range g.Edges {
		if e.Role != domain.RoleSameAs || e.Source != pronoun.ID || e.Target != antecedent.ID {
			continue
		}
		src, tgt := e.EndpointFrames()
		if src == pronoun.Properties.FrameID && tgt == antecedent.Properties.FrameID {
			return true
		}
	}
	return false
}

func findAntecedent(preceding []domain.Node, class pronounClass) (domain.Node, bool) {
	for j := len(preceding) - 1; j >= 0; j-- {
		cand := preceding[j]
		if IsPronoun(cand.Label) {
			continue
		}
		if pos := cand.Properties.POS; pos != "" && pos != "NOUN" && pos != "PROPN" {
			continue
		}
		if class.personal() && cand.Properties.EntityLabel != "PERSON" {
			continue
		}
		return cand, true
	}
	return domain.Node{}, false
}
