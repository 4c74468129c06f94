package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/interpret"
	"github.com/Harshitk-cp/lide/internal/pipeline"
	"github.com/Harshitk-cp/lide/internal/semantic"
	"github.com/Harshitk-cp/lide/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentConflict = errors.New("document with this id already exists")
	ErrGraphNotFound    = errors.New("graph not found")
	ErrTextEmpty        = errors.New("text is required")
	ErrInvalidMode      = errors.New("invalid processing mode")
)

const (
	DefaultMaxDiagnostics = 5
	MaxDiagnosticsCap     = 50
)

type AnalyzeOptions struct {
	Mode           domain.ProcessingMode
	MaxDiagnostics int
}

type AnalysisResult struct {
	DocID                string                       `json:"docId"`
	GraphSummary         domain.GraphSummary          `json:"graph_summary"`
	TopDiagnostics       []domain.Diagnostic          `json:"top_diagnostics"`
	KnowledgeValidations []domain.KnowledgeValidation `json:"knowledge_validations,omitempty"`
}

// AnalysisService owns standalone documents and their analysed graphs.
type AnalysisService struct {
	docs        domain.DocumentStore
	graphs      domain.GraphStore
	pipeline    *pipeline.Pipeline
	interpreter *interpret.Interpreter
	logger      *zap.Logger
}

func NewAnalysisService(ds domain.DocumentStore, gs domain.GraphStore, p *pipeline.Pipeline, in *interpret.Interpreter, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		docs:        ds,
		graphs:      gs,
		pipeline:    p,
		interpreter: in,
		logger:      logger,
	}
}

// CreateDocument stores text under id, or under a fresh id when id is empty.
func (s *AnalysisService) CreateDocument(ctx context.Context, id, text, lang string) (*domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextEmpty
	}
	if id == "" {
		id = uuid.NewString()
	}
	if lang == "" {
		lang = "en"
	}
	d := &domain.Document{ID: id, Text: text, Lang: lang}
	if err := s.docs.CreateDocument(ctx, d); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDocumentConflict
		}
		return nil, err
	}
	return d, nil
}

func (s *AnalysisService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	d, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *AnalysisService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.docs.ListDocuments(ctx)
}

func (s *AnalysisService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.docs.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}

// Analyze runs the pipeline over a stored document, applies the processing
// mode and stores the resulting graph.
func (s *AnalysisService) Analyze(ctx context.Context, docID string, opts AnalyzeOptions) (*AnalysisResult, error) {
	if opts.Mode != "" && !domain.ValidProcessingMode(string(opts.Mode)) {
		return nil, ErrInvalidMode
	}
	doc, err := s.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Process(ctx, doc.Text, doc.ID)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyText) {
			return nil, ErrTextEmpty
		}
		return nil, err
	}
	g := res.Graph

	validations, err := s.interpreter.Interpret(ctx, opts.Mode, g, domain.PluginContext{DocID: doc.ID})
	if err != nil {
		return nil, ErrInvalidMode
	}

	if err := s.graphs.SaveGraph(ctx, doc.ID, g); err != nil {
		return nil, err
	}

	s.logger.Info("document analysed",
		zap.String("doc_id", doc.ID),
		zap.String("mode", string(opts.Mode)),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("diagnostics", len(g.Diagnostics)),
	)

	return &AnalysisResult{
		DocID:                doc.ID,
		GraphSummary:         g.Summary(),
		TopDiagnostics:       topDiagnostics(g.Diagnostics, opts.MaxDiagnostics),
		KnowledgeValidations: validations,
	}, nil
}

func topDiagnostics(diags []domain.Diagnostic, limit int) []domain.Diagnostic {
	if limit <= 0 {
		limit = DefaultMaxDiagnostics
	}
	if limit > MaxDiagnosticsCap {
		limit = MaxDiagnosticsCap
	}
	if len(diags) < limit {
		limit = len(diags)
	}
	out := make([]domain.Diagnostic, limit)
	copy(out, diags[:limit])
	return out
}

func (s *AnalysisService) GetGraph(ctx context.Context, docID string) (*domain.MeaningGraph, error) {
	g, err := s.graphs.GetGraph(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGraphNotFound
		}
		return nil, err
	}
	return g, nil
}

// Logic runs the logic engine over the stored graph's assertions.
func (s *AnalysisService) Logic(ctx context.Context, docID string) (*domain.LogicReport, error) {
	g, err := s.GetGraph(ctx, docID)
	if err != nil {
		return nil, err
	}
	report := semantic.Analyze(g)
	return &report, nil
}

// Plugins lists the validation plugins available in Truth mode.
func (s *AnalysisService) Plugins() []domain.PluginInfo {
	return s.interpreter.Registry().List()
}
