package semantic

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	builderEngineID = "dependency-graph"
	engineVersion   = "0.1.0"
)

var (
	goalVerbs       = map[string]bool{"want": true, "need": true, "desire": true, "aim": true, "plan": true}
	firstPerson     = map[string]bool{"i": true, "we": true}
	possibleAux     = map[string]bool{"can": true, "could": true, "may": true, "might": true}
	necessaryAux    = map[string]bool{"must": true, "should": true, "ought": true, "need": true}
	futureAux       = map[string]bool{"will": true, "shall": true}
	conditionMarks  = map[string]bool{"if": true, "unless": true, "provided": true}
	temporalMarks   = map[string]bool{"before": true, "after": true, "while": true, "since": true, "until": true}
	sequenceAdverbs = map[string]bool{"then": true, "later": true, "subsequently": true}
)

// frameNamespace scopes deterministic frame ids.
var frameNamespace = uuid.MustParse("6f1c8a52-3c1e-4d4b-9a57-0d2f3b6e8c11")

// FrameID derives the default context frame id for a document so repeated
// runs over the same document agree.
func FrameID(docID string) string {
	id := uuid.NewSHA1(frameNamespace, []byte(docID))
	return "ctx_" + strings.ReplaceAll(id.String(), "-", "")[:8]
}

// Builder maps a dependency parse onto meaning-graph nodes and role edges.
type Builder struct {
	logger *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build creates the structural graph for one parsed text: entity, event and
// goal nodes, their role edges and a single RealWorld frame.
func (b *Builder) Build(doc *domain.AnnotatedDoc, docID string) *domain.MeaningGraph {
	g := domain.NewMeaningGraph()
	frameID := FrameID(docID)
	g.ContextFrames = append(g.ContextFrames, domain.ContextFrame{
		FrameID:   frameID,
		FrameType: domain.FrameRealWorld,
		SourceDoc: docID,
	})

	run := &buildRun{doc: doc, graph: g, frameID: frameID}
	for _, e := range doc.Entities {
		run.addEntity(e)
	}
	for _, tok := range doc.Tokens {
		if tok.POS == "VERB" || tok.POS == "AUX" {
			run.addEvent(tok)
		}
	}

	g.Provenance = append(g.Provenance, domain.Provenance{
		SourceDoc:     docID,
		EngineID:      builderEngineID,
		EngineVersion: engineVersion,
		Confidence:    1.0,
	})

	b.logger.Debug("graph built",
		zap.String("doc_id", docID),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)
	return g
}

type buildRun struct {
	doc     *domain.AnnotatedDoc
	graph   *domain.MeaningGraph
	frameID string
}

func entityID(e domain.EntitySpan) string { return fmt.Sprintf("ent_%d", e.Start) }
func eventID(i int) string { return fmt.Sprintf("evt_%d", i) }
func tokenID(i int) string { return fmt.Sprintf("tok_%d", i) }

func tokenSpan(t domain.Token) *domain.Span {
	return &domain.Span{Start: t.Start, End: t.End(), Text: t.Text}
}

func (r *buildRun) addEntity(e domain.EntitySpan) {
	head := r.doc.EntityHead(e)
	r.graph.AddNode(domain.Node{
		ID:    entityID(e),
		Type:  domain.NodeEntity,
		Label: e.Text,
		Span:  &domain.Span{Start: e.StartChar, End: e.EndChar, Text: e.Text},
		Properties: domain.NodeProperties{
			POS:         head.POS,
			EntityLabel: e.Label,
			FrameID:     r.frameID,
		},
	})
}

func (r *buildRun) isGoal(tok domain.Token) bool {
	if tok.Dep != "xcomp" || tok.Head == tok.Index {
		return false
	}
	head := r.doc.Tokens[tok.Head]
	if !goalVerbs[head.Lemma] {
		return false
	}
	for _, c := range r.doc.Children(head.Index) {
		if c.Dep == "nsubj" || c.Dep == "nsubjpass" {
			return firstPerson[strings.ToLower(c.Text)]
		}
	}
	return false
}

func (r *buildRun) addEvent(tok domain.Token) {
	props := domain.NodeProperties{
		POS:      tok.POS,
		Tag:      tok.Tag,
		FrameID:  r.frameID,
		Modality: domain.ModalityFactual,
		Polarity: domain.PolarityPositive,
	}
	children := r.doc.Children(tok.Index)
	for _, c := range children {
		if c.Dep == "neg" {
			props.Polarity = domain.PolarityNegative
		}
		if c.Dep != "aux" {
			continue
		}
		switch {
		case possibleAux[c.Lemma]:
			props.Modality, props.Auxiliary = domain.ModalityPossible, c.Lemma
		case necessaryAux[c.Lemma]:
			props.Modality, props.Auxiliary = domain.ModalityNecessary, c.Lemma
		case futureAux[c.Lemma]:
			props.Modality, props.Auxiliary = domain.ModalityFuture, c.Lemma
		}
	}

	nodeType := domain.NodeEvent
	if r.isGoal(tok) {
		nodeType = domain.NodeGoal
	}
	id := eventID(tok.Index)
	r.graph.AddNode(domain.Node{
		ID:         id,
		Type:       nodeType,
		Label:      tok.Lemma,
		Span:       tokenSpan(tok),
		Properties: props,
	})

	for _, c := range children {
		role, target, ok := r.roleFor(c)
		if !ok {
			continue
		}
		r.link(id, target, role)

		if c.Dep == "auxpass" {
			for _, gc := range r.doc.Children(c.Index) {
				if gc.Dep == "nsubj" || gc.Dep == "nsubjpass" {
					r.link(id, gc, domain.RoleTheme)
				}
			}
		}
	}
}

// roleFor maps one dependent of an event token to a semantic role and the
// token the edge should point at.
func (r *buildRun) roleFor(c domain.Token) (domain.EdgeRole, domain.Token, bool) {
	switch c.Dep {
	case "nsubj", "nsubjpass":
		return domain.RoleAgent, c, true
	case "dobj", "pobj":
		return domain.RolePatient, c, true
	case "acomp", "attr", "advmod":
		return domain.RoleTheme, c, true
	case "auxpass", "mark":
		return domain.RoleSupport, c, true
	case "prep":
		for _, gc := range r.doc.Children(c.Index) {
			if gc.Dep != "pobj" {
				continue
			}
			switch strings.ToLower(c.Lemma) {
			case "in", "at", "on":
				return domain.RoleLocation, gc, true
			case "by":
				return domain.RoleAgent, gc, true
			default:
				return domain.RoleTheme, gc, true
			}
		}
		return "", c, false
	case "advcl":
		for _, gc := range r.doc.Children(c.Index) {
			if gc.Dep != "mark" {
				continue
			}
			marker := strings.ToLower(gc.Text)
			switch {
			case conditionMarks[marker]:
				return domain.RoleCondition, c, true
			case temporalMarks[marker]:
				return domain.RoleSequence, c, true
			}
			return domain.RoleSupport, c, true
		}
		return domain.RoleSupport, c, true
	case "conj":
		for _, gc := range r.doc.Children(c.Index) {
			if sequenceAdverbs[strings.ToLower(gc.Text)] {
				return domain.RoleSequence, c, true
			}
		}
		return domain.RoleSupport, c, true
	}
	return "", c, false
}

// link adds an edge from source to the node standing for target, creating an
// argument entity when target lies outside every named entity.
func (r *buildRun) link(source string, target domain.Token, role domain.EdgeRole) {
	r.graph.Edges = append(r.graph.Edges, domain.Edge{
		Source: source,
		Target: r.argumentNode(target),
		Role:   role,
		Provenance: []domain.Provenance{{
			EngineID:      builderEngineID,
			EngineVersion: engineVersion,
			Confidence:    1.0,
		}},
	})
}

func (r *buildRun) argumentNode(t domain.Token) string {
	if e, ok := r.doc.EntityContaining(t.Index); ok {
		return entityID(e)
	}

	var parts []string
	for _, c := range r.doc.Children(t.Index) {
		if c.Dep == "amod" {
			parts = append(parts, c.Text)
		}
	}
	parts = append(parts, t.Text)

	id := tokenID(t.Index)
	r.graph.AddNode(domain.Node{
		ID:    id,
		Type:  domain.NodeEntity,
		Label: strings.Join(parts, " "),
		Span:  tokenSpan(t),
		Properties: domain.NodeProperties{
			POS:     t.POS,
			FrameID: r.frameID,
		},
	})
	return id
}
