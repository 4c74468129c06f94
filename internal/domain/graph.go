package domain

type NodeType string

const (
	NodeEntity       NodeType = "Entity"
	NodeEvent        NodeType = "Event"
	NodeClaim        NodeType = "Claim"
	NodeContextFrame NodeType = "ContextFrame"
	NodeGoal         NodeType = "Goal"
)

func ValidNodeType(t string) bool {
	switch NodeType(t) {
	case NodeEntity, NodeEvent, NodeClaim, NodeContextFrame, NodeGoal:
		return true
	}
	return false
}

type EdgeRole string

const (
	RoleAgent         EdgeRole = "Agent"
	RolePatient       EdgeRole = "Patient"
	RoleInstrument    EdgeRole = "Instrument"
	RoleTime          EdgeRole = "Time"
	RoleLocation      EdgeRole = "Location"
	RoleCause         EdgeRole = "Cause"
	RoleSupport       EdgeRole = "Support"
	RoleContradiction EdgeRole = "Contradiction"
	RoleRefersTo      EdgeRole = "Refers_to"
	RoleTheme         EdgeRole = "Theme"
	RoleExperiencer   EdgeRole = "Experiencer"
	RoleSequence      EdgeRole = "Sequence"
	RoleCondition     EdgeRole = "Condition"
	RoleSameAs        EdgeRole = "SameAs"
	RoleContrast      EdgeRole = "Contrast"
)

func ValidEdgeRole(r string) bool {
	switch EdgeRole(r) {
	case RoleAgent, RolePatient, RoleInstrument, RoleTime, RoleLocation, RoleCause,
		RoleSupport, RoleContradiction, RoleRefersTo, RoleTheme, RoleExperiencer,
		RoleSequence, RoleCondition, RoleSameAs, RoleContrast:
		return true
	}
	return false
}

// IdentityRoles mark edges that encode reference rather than a semantic role.
var IdentityRoles = map[EdgeRole]bool{
	RoleSameAs:   true,
	RoleRefersTo: true,
}

// DiscourseRoles connect two events rather than an event and an argument.
var DiscourseRoles = map[EdgeRole]bool{
	RoleCause:     true,
	RoleContrast:  true,
	RoleSequence:  true,
	RoleCondition: true,
}

type Modality string

const (
	ModalityFactual   Modality = "factual"
	ModalityPossible  Modality = "possible"
	ModalityNecessary Modality = "necessary"
	ModalityFuture    Modality = "future"
)

type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type Provenance struct {
	SourceDoc     string           `json:"source_doc,omitempty"`
	SentenceIndex *int             `json:"sentence_index,omitempty"`
	Span          *Span            `json:"span,omitempty"`
	EngineID      string           `json:"engine_id"`
	EngineVersion string           `json:"engine_version"`
	Confidence    float64          `json:"confidence"`
	Receipts      []map[string]any `json:"receipts,omitempty"`
}

// NodeProperties is the structured property record carried by every node.
// Extra is reserved for metadata that has no dedicated field.
type NodeProperties struct {
	POS         string         `json:"pos,omitempty"`
	Tag         string         `json:"tag,omitempty"`
	EntityLabel string         `json:"label,omitempty"`
	Modality    Modality       `json:"modality,omitempty"`
	Auxiliary   string         `json:"auxiliary,omitempty"`
	Polarity    Polarity       `json:"polarity,omitempty"`
	FrameID     string         `json:"frame_id,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

type Node struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Label      string         `json:"label"`
	Span       *Span          `json:"span,omitempty"`
	Properties NodeProperties `json:"properties"`
}

type Edge struct {
	Source     string       `json:"source"`
	Target     string       `json:"target"`
	Role       EdgeRole     `json:"role"`
	Provenance []Provenance `json:"provenance,omitempty"`
}

// Receipt keys naming the frame of each endpoint of an edge whose endpoints
// may come from different turns.
const (
	ReceiptSourceFrame = "source_frame"
	ReceiptTargetFrame = "target_frame"
)

// EndpointFrames returns the endpoint frames recorded on e's receipts, or
// empty strings when none were recorded.
func (e Edge) EndpointFrames() (source, target string) {
	for _, p := range e.Provenance {
		for _, r := range p.Receipts {
			s, _ := r[ReceiptSourceFrame].(string)
			t, _ := r[ReceiptTargetFrame].(string)
			if s != "" || t != "" {
				return s, t
			}
		}
	}
	return "", ""
}

type ContextFrame struct {
	FrameID      string `json:"frame_id"`
	FrameType    string `json:"frame_type"`
	SpeakerID    string `json:"speaker_id,omitempty"`
	TimeAnchor   string `json:"time_anchor,omitempty"`
	SourceDoc    string `json:"source_doc,omitempty"`
	ModalityHint string `json:"modality_hint,omitempty"`
}

const FrameRealWorld = "RealWorld"

type AmbiguityDimension string

const (
	AmbiguityLexical   AmbiguityDimension = "AMB-LEX"
	AmbiguitySyntactic AmbiguityDimension = "AMB-SYN"
	AmbiguityReferent  AmbiguityDimension = "AMB-REF"
	AmbiguityScope     AmbiguityDimension = "AMB-SCOPE"
	AmbiguityTime      AmbiguityDimension = "AMB-TIME"
	AmbiguityModal     AmbiguityDimension = "AMB-MODAL"
	AmbiguityPragmatic AmbiguityDimension = "AMB-PRAG"
	AmbiguityFigure    AmbiguityDimension = "AMB-FIG"
	AmbiguityDiscourse AmbiguityDimension = "AMB-DISCOURSE"
	AmbiguityWorld     AmbiguityDimension = "AMB-WORLD"
)

// GraphDelta is a set of nodes and edges that can be merged into a graph.
type GraphDelta struct {
	Nodes []Node `json:"nodes,omitempty"`
	Edges []Edge `json:"edges,omitempty"`
}

func (d *GraphDelta) Empty() bool {
	return d == nil || (len(d.Nodes) == 0 && len(d.Edges) == 0)
}

type AmbiguityAlternative struct {
	Label  string     `json:"label"`
	Weight float64    `json:"weight"`
	Delta  GraphDelta `json:"delta"`
}

type AmbiguitySet struct {
	ID           string                 `json:"id"`
	Dimension    AmbiguityDimension     `json:"dimension"`
	Alternatives []AmbiguityAlternative `json:"alternatives"`
	Provenance   []Provenance           `json:"provenance,omitempty"`
}

// Assertion is a flattened subject-predicate-object proposition derived from
// one event node. Empty Object, Modality and Condition mean absent.
type Assertion struct {
	Subject       string  `json:"subject"`
	SubjectID     string  `json:"subject_id,omitempty"`
	Predicate     string  `json:"predicate"`
	Object        string  `json:"object,omitempty"`
	Modality      string  `json:"modality,omitempty"`
	Condition     string  `json:"condition,omitempty"`
	SourceEventID string  `json:"source_event_id"`
	FrameID       string  `json:"frame_id,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// MeaningGraph is the aggregate produced for one text or accumulated across a
// session. Edges may reference ids that are missing; lookups skip them.
type MeaningGraph struct {
	Nodes         []Node         `json:"nodes"`
	Edges         []Edge         `json:"edges"`
	Assertions    []Assertion    `json:"assertions"`
	AmbiguitySets []AmbiguitySet `json:"ambiguity_sets"`
	ContextFrames []ContextFrame `json:"context_frames"`
	Diagnostics   []Diagnostic   `json:"diagnostics"`
	Provenance    []Provenance   `json:"provenance"`
}

func NewMeaningGraph() *MeaningGraph {
	return &MeaningGraph{
		Nodes:         []Node{},
		Edges:         []Edge{},
		Assertions:    []Assertion{},
		AmbiguitySets: []AmbiguitySet{},
		ContextFrames: []ContextFrame{},
		Diagnostics:   []Diagnostic{},
		Provenance:    []Provenance{},
	}
}

// Node returns the first node with the given id. Ids are only unique within
// one parse, so in an accumulated graph the earliest turn wins; use
// NodeInFrame when the frame is known.
func (g *MeaningGraph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// NodeInFrame returns the node with id whose FrameID is frame. An empty frame,
// or a frame holding no such node, falls back to Node.
func (g *MeaningGraph) NodeInFrame(id, frame string) (*Node, bool) {
	if frame != "" {
		for i := range g.Nodes {
			if g.Nodes[i].ID == id && g.Nodes[i].Properties.FrameID == frame {
				return &g.Nodes[i], true
			}
		}
	}
	return g.Node(id)
}

func (g *MeaningGraph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// AddNode appends n unless a node with the same id already exists.
func (g *MeaningGraph) AddNode(n Node) bool {
	if g.HasNode(n.ID) {
		return false
	}
	g.Nodes = append(g.Nodes, n)
	return true
}

func (g *MeaningGraph) HasEdge(source, target string, role EdgeRole) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target && e.Role == role {
			return true
		}
	}
	return false
}

// EdgesFrom returns outgoing edges of id in insertion order.
func (g *MeaningGraph) EdgesFrom(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

func (g *MeaningGraph) NodesOfType(types ...NodeType) []Node {
	var out []Node
	for _, n := range g.Nodes {
		for _, t := range types {
			if n.Type == t {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func (g *MeaningGraph) EdgesWithRole(role EdgeRole) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// Append adds another graph's nodes, edges, assertions, ambiguity sets and
// frames without deduplication or id rewriting.
func (g *MeaningGraph) Append(other *MeaningGraph) {
	if other == nil {
		return
	}
	g.Nodes = append(g.Nodes, other.Nodes...)
	g.Edges = append(g.Edges, other.Edges...)
	g.Assertions = append(g.Assertions, other.Assertions...)
	g.AmbiguitySets = append(g.AmbiguitySets, other.AmbiguitySets...)
	g.ContextFrames = append(g.ContextFrames, other.ContextFrames...)
}

// Clone returns a deep enough copy for independent mutation of slices and
// diagnostics.
func (g *MeaningGraph) Clone() *MeaningGraph {
	c := &MeaningGraph{
		Nodes:         append([]Node{}, g.Nodes...),
		Edges:         append([]Edge{}, g.Edges...),
		Assertions:    append([]Assertion{}, g.Assertions...),
		AmbiguitySets: append([]AmbiguitySet{}, g.AmbiguitySets...),
		ContextFrames: append([]ContextFrame{}, g.ContextFrames...),
		Diagnostics:   append([]Diagnostic{}, g.Diagnostics...),
		Provenance:    append([]Provenance{}, g.Provenance...),
	}
	return c
}

// GraphSummary is the size overview returned alongside analyses.
type GraphSummary struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (g *MeaningGraph) Summary() GraphSummary {
	return GraphSummary{Nodes: len(g.Nodes), Edges: len(g.Edges)}
}
