// Package pipeline turns one text into a fully annotated meaning graph.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/augment"
	"github.com/Harshitk-cp/lide/internal/checker"
	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/semantic"
	"go.uber.org/zap"
)

var ErrEmptyText = errors.New("text is empty")

type Pipeline struct {
	annotator domain.Annotator
	builder   *semantic.Builder
	extractor *semantic.AssertionExtractor
	augmenter *augment.Augmenter
	logger    *zap.Logger
}

type Option func(*Pipeline)

// WithAugmenter enables hybrid augmentation.
func WithAugmenter(a *augment.Augmenter) Option {
	return func(p *Pipeline) { p.augmenter = a }
}

// WithObjectFallback replaces the assertion extractor's last-resort object rule.
func WithObjectFallback(f semantic.ObjectFallback) Option {
	return func(p *Pipeline) { p.extractor = semantic.NewAssertionExtractor(f) }
}

func New(annotator domain.Annotator, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		annotator: annotator,
		builder:   semantic.NewBuilder(logger),
		extractor: semantic.NewAssertionExtractor(nil),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is one processed text: the graph and the parse it was built from.
type Result struct {
	Graph *domain.MeaningGraph
	Doc   *domain.AnnotatedDoc
}

// Process runs every stage over text. Only annotation failures are returned;
// augmentation degrades silently and checkers never fail.
func (p *Pipeline) Process(ctx context.Context, text, docID string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	doc, err := p.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", docID, err)
	}

	g := p.builder.Build(doc, docID)

	sets, diags := semantic.DetectAmbiguities(text, docID, g)
	g.AmbiguitySets = append(g.AmbiguitySets, sets...)
	g.Diagnostics = append(g.Diagnostics, diags...)

	coref := semantic.ResolveCoreference(g)

	if p.augmenter.Enabled() {
		delta := p.augmenter.Propose(ctx, text, docID)
		nodes, edges := augment.Merge(g, delta, semantic.FrameID(docID))
		p.logger.Debug("augmentation merged",
			zap.String("doc_id", docID),
			zap.Int("nodes", nodes),
			zap.Int("edges", edges),
		)
	}

	g.Assertions = p.extractor.Extract(g)

	g.Diagnostics = append(g.Diagnostics, checker.Continuity(g)...)
	g.Diagnostics = append(g.Diagnostics, checker.Oxymoron(g)...)
	g.Diagnostics = append(g.Diagnostics, checker.Ambiguity(g)...)
	g.Edges = append(g.Edges, checker.Discourse(g, doc)...)

	p.logger.Debug("text processed",
		zap.String("doc_id", docID),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
		zap.Int("coref_edges", len(coref)),
		zap.Int("assertions", len(g.Assertions)),
		zap.Int("diagnostics", len(g.Diagnostics)),
	)
	return &Result{Graph: g, Doc: doc}, nil
}
