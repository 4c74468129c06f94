package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/lide/internal/checker"
	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/interpret"
	"github.com/Harshitk-cp/lide/internal/pipeline"
	"github.com/Harshitk-cp/lide/internal/semantic"
	"github.com/Harshitk-cp/lide/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session with this id already exists")
)

const (
	DefaultSessionLimit = 50
	MaxSessionLimit     = 500
)

// TurnResult is the outcome of one message posted to a session.
type TurnResult struct {
	MessageID    string                       `json:"message_id"`
	SessionID    string                       `json:"session_id"`
	Graph        *domain.MeaningGraph         `json:"graph"`
	TurnGraph    *domain.MeaningGraph         `json:"-"`
	Diagnostics  []domain.Diagnostic          `json:"diagnostics"`
	MessageCount int                          `json:"message_count"`
	Warning      string                       `json:"warning,omitempty"`
	Validations  []domain.KnowledgeValidation `json:"knowledge_validations,omitempty"`
}

// SessionService accumulates per-turn graphs into one graph per session.
// Turns on the same session are serialised.
type SessionService struct {
	sessions    domain.SessionStore
	docs        domain.DocumentStore
	graphs      domain.GraphStore
	pipeline    *pipeline.Pipeline
	interpreter *interpret.Interpreter
	logger      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionService(ss domain.SessionStore, ds domain.DocumentStore, gs domain.GraphStore, p *pipeline.Pipeline, in *interpret.Interpreter, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions:    ss,
		docs:        ds,
		graphs:      gs,
		pipeline:    p,
		interpreter: in,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *SessionService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create starts a new session. An empty id gets a generated one.
func (s *SessionService) Create(ctx context.Context, id, name string) (*domain.Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		name = "Session " + time.Now().UTC().Format("2006-01-02 15:04")
	}
	sess := &domain.Session{ID: id, Name: name, Graph: domain.NewMeaningGraph()}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrSessionConflict
		}
		return nil, err
	}
	s.logger.Info("session created", zap.String("session_id", id))
	return sess, nil
}

// Ensure returns the session with id, creating it on first use.
func (s *SessionService) Ensure(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	sess, err = s.Create(ctx, id, id)
	if errors.Is(err, ErrSessionConflict) {
		return s.Get(ctx, id)
	}
	return sess, err
}

func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns one page of session metadata, newest first, plus the total.
func (s *SessionService) List(ctx context.Context, limit, offset int) ([]domain.SessionMetadata, int, error) {
	all, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	if limit > MaxSessionLimit {
		limit = MaxSessionLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []domain.SessionMetadata{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (s *SessionService) Rename(ctx context.Context, id, name string) (*domain.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	if err := s.sessions.RenameSession(ctx, id, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the session and the documents of its turns.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range sess.Messages {
		if err := s.docs.DeleteDocument(ctx, m.DocID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to delete turn document", zap.String("doc_id", m.DocID), zap.Error(err))
		}
	}
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

func (s *SessionService) Messages(ctx context.Context, id string) ([]domain.SessionMessage, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

// AccumulatedGraph returns the session graph, or ErrGraphNotFound before the
// first message.
func (s *SessionService) AccumulatedGraph(ctx context.Context, id string) (*domain.MeaningGraph, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(sess.Messages) == 0 {
		return nil, ErrGraphNotFound
	}
	return sess.Graph, nil
}

// AddMessage processes text as the next turn of session id. The turn graph is
// appended to the session graph without merging entities, coreference runs
// again over the whole history and the session diagnostics are replaced by a
// fresh run of every checker. A non-empty mode is applied to the result.
func (s *SessionService) AddMessage(ctx context.Context, id, text string, mode domain.ProcessingMode) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextEmpty
	}
	if mode != "" && !domain.ValidProcessingMode(string(mode)) {
		return nil, ErrInvalidMode
	}

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	n := len(sess.Messages) + 1
	docID := fmt.Sprintf("msg_%s_%d", sess.ID, n)

	res, err := s.pipeline.Process(ctx, text, docID)
	if err != nil {
		return nil, fmt.Errorf("process turn %d: %w", n, err)
	}
	turn := res.Graph

	if err := s.docs.CreateDocument(ctx, &domain.Document{ID: docID, Text: text, Lang: "en"}); err != nil && !errors.Is(err, store.ErrConflict) {
		return nil, fmt.Errorf("store turn document: %w", err)
	}
	if err := s.graphs.SaveGraph(ctx, docID, turn); err != nil {
		s.discardTurn(ctx, docID)
		return nil, fmt.Errorf("store turn graph: %w", err)
	}

	acc := sess.Graph
	if acc == nil {
		acc = domain.NewMeaningGraph()
	}
	acc.Append(turn)
	semantic.ResolveCoreference(acc)
	acc.Diagnostics = SessionDiagnostics(acc)
	warning := SelectWarning(turn, acc)

	var validations []domain.KnowledgeValidation
	if mode != "" {
		validations, err = s.interpreter.Interpret(ctx, mode, acc, domain.PluginContext{DocID: docID})
		if err != nil {
			s.discardTurn(ctx, docID)
			return nil, ErrInvalidMode
		}
	}

	sess.Graph = acc
	sess.Messages = append(sess.Messages, domain.SessionMessage{
		Text:      text,
		DocID:     docID,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		s.discardTurn(ctx, docID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	s.logger.Info("session turn processed",
		zap.String("session_id", sess.ID),
		zap.String("doc_id", docID),
		zap.Int("nodes", len(acc.Nodes)),
		zap.Int("diagnostics", len(acc.Diagnostics)),
		zap.Bool("warning", warning != ""),
	)

	return &TurnResult{
		MessageID:    docID,
		SessionID:    sess.ID,
		Graph:        acc,
		TurnGraph:    turn,
		Diagnostics:  acc.Diagnostics,
		MessageCount: len(sess.Messages),
		Warning:      warning,
		Validations:  validations,
	}, nil
}

// discardTurn removes the document and graph of a turn that never reached the
// session record.
func (s *SessionService) discardTurn(ctx context.Context, docID string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.graphs.DeleteGraph(ctx, docID); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to discard turn graph", zap.String("doc_id", docID), zap.Error(err))
	}
	if err := s.docs.DeleteDocument(ctx, docID); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to discard turn document", zap.String("doc_id", docID), zap.Error(err))
	}
}

// SessionDiagnostics runs the history-wide checkers over an accumulated graph.
func SessionDiagnostics(g *domain.MeaningGraph) []domain.Diagnostic {
	diags := []domain.Diagnostic{}
	diags = append(diags, checker.Continuity(g)...)
	diags = append(diags, checker.Ambiguity(g)...)
	diags = append(diags, checker.Oxymoron(g)...)
	diags = append(diags, checker.CrossMessage(g)...)
	return diags
}
