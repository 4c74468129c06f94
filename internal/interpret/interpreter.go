// Package interpret applies a processing mode to a meaning graph's
// diagnostics and runs validation plugins in Truth mode.
package interpret

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
	"go.uber.org/zap"
)

const narrativePrefix = "[Narrative] "

var ErrUnknownMode = errors.New("unknown processing mode")

type Interpreter struct {
	registry *Registry
	logger   *zap.Logger
}

func NewInterpreter(registry *Registry, logger *zap.Logger) *Interpreter {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Interpreter{registry: registry, logger: logger}
}

func (i *Interpreter) Registry() *Registry {
	return i.registry
}

// Interpret rewrites g in place according to mode and returns any knowledge
// validations produced by plugins. An empty mode means Map.
func (i *Interpreter) Interpret(ctx context.Context, mode domain.ProcessingMode, g *domain.MeaningGraph, pc domain.PluginContext) ([]domain.KnowledgeValidation, error) {
	switch mode {
	case "", domain.ModeMap:
		applyMap(g)
		return nil, nil
	case domain.ModeFiction:
		applyFiction(g)
		return nil, nil
	case domain.ModeTruth:
		return i.applyTruth(ctx, g, pc), nil
	}
	return nil, ErrUnknownMode
}

// applyMap keeps contradictions as annotations: they never exceed Warning.
func applyMap(g *domain.MeaningGraph) {
	for j := range g.Diagnostics {
		if g.Diagnostics[j].Kind == domain.DiagnosticContradiction {
			g.Diagnostics[j].Severity = domain.SeverityWarning
		}
	}
}

func applyFiction(g *domain.MeaningGraph) {
	for j := range g.Diagnostics {
		d := &g.Diagnostics[j]
		if d.Kind != domain.DiagnosticContradiction {
			continue
		}
		d.Severity = domain.SeverityInfo
		if !strings.HasPrefix(d.Message, narrativePrefix) {
			d.Message = narrativePrefix + d.Message
		}
	}
}

func (i *Interpreter) applyTruth(ctx context.Context, g *domain.MeaningGraph, pc domain.PluginContext) []domain.KnowledgeValidation {
	var validations []domain.KnowledgeValidation
	for _, p := range i.registry.all() {
		res, err := p.Run(ctx, g, pc)
		if err != nil {
			i.logger.Warn("plugin failed",
				zap.String("plugin", p.ID()),
				zap.String("doc_id", pc.DocID),
				zap.Error(err),
			)
			continue
		}
		if res == nil {
			continue
		}
		g.Diagnostics = append(g.Diagnostics, res.Diagnostics...)
		MergeDelta(g, res.GraphUpdates)
		validations = append(validations, res.KnowledgeValidations...)
	}
	return validations
}

// MergeDelta adds delta nodes whose id is new and edges not already present.
func MergeDelta(g *domain.MeaningGraph, delta *domain.GraphDelta) {
	if delta.Empty() {
		return
	}
	for _, n := range delta.Nodes {
		g.AddNode(n)
	}
	for _, e := range delta.Edges {
		if !g.HasEdge(e.Source, e.Target, e.Role) {
			g.Edges = append(g.Edges, e)
		}
	}
}
