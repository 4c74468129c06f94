package interpret

import (
	"context"
	"sort"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

const (
	DiscourseMarkerID = "discourse-marker"
	engineVersion     = "0.1.0"
)

var markerRoles = map[string]domain.EdgeRole{
	"because":   domain.RoleCause,
	"however":   domain.RoleContradiction,
	"therefore": domain.RoleSupport,
	"but":       domain.RoleContradiction,
}

// DiscourseMarker links the events on either side of a marker node by span
// position. It only needs the graph, so it also works on graphs whose parse
// is no longer available. Spans restart with every turn of a session graph,
// so only events in the marker's frame are candidates when it has one.
type DiscourseMarker struct{}

func NewDiscourseMarker() *DiscourseMarker { return &DiscourseMarker{} }

func (DiscourseMarker) ID() string      { return DiscourseMarkerID }
func (DiscourseMarker) Version() string { return engineVersion }

func (DiscourseMarker) Run(_ context.Context, g *domain.MeaningGraph, pc domain.PluginContext) (*domain.PluginResult, error) {
	var events []domain.Node
	for _, n := range g.NodesOfType(domain.NodeEvent) {
		if n.Span != nil {
			events = append(events, n)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Span.Start < events[j].Span.Start })

	delta := &domain.GraphDelta{}
	for _, n := range g.Nodes {
		marker := strings.ToLower(n.Label)
		role, ok := markerRoles[marker]
		if !ok || n.Span == nil {
			continue
		}

		var prev, next *domain.Node
		for i := range events {
			if n.Properties.FrameID != "" && events[i].Properties.FrameID != n.Properties.FrameID {
				continue
			}
			switch {
			case events[i].Span.End < n.Span.Start:
				prev = &events[i]
			case events[i].Span.Start > n.Span.End && next == nil:
				next = &events[i]
			}
		}
		if prev == nil || next == nil {
			continue
		}

		source, target := prev, next
		if marker == "because" {
			source, target = next, prev
		}
		delta.Edges = append(delta.Edges, domain.Edge{
			Source: source.ID,
			Target: target.ID,
			Role:   role,
			Provenance: []domain.Provenance{{
				SourceDoc:     pc.DocID,
				EngineID:      DiscourseMarkerID,
				EngineVersion: engineVersion,
				Confidence:    0.6,
				Receipts: []map[string]any{{
					domain.ReceiptSourceFrame: source.Properties.FrameID,
					domain.ReceiptTargetFrame: target.Properties.FrameID,
				}},
			}},
		})
	}
	return &domain.PluginResult{GraphUpdates: delta}, nil
}
