// Package store persists documents, their meaning graphs and chat sessions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open returns the store for backend. dsn is a file path for sqlite and a
// connection string for postgres; memory ignores it.
func Open(ctx context.Context, backend, dsn string) (domain.Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, dsn)
	case BackendPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (valid options: memory, sqlite, postgres)", backend)
	}
}

// sortSessions orders session metadata newest first.
func sortSessions(ms []domain.SessionMetadata) {
	sort.SliceStable(ms, func(i, j int) bool {
		if !ms[i].UpdatedAt.Equal(ms[j].UpdatedAt) {
			return ms[i].UpdatedAt.After(ms[j].UpdatedAt)
		}
		return ms[i].ID < ms[j].ID
	})
}

func sortDocuments(ds []domain.Document) {
	sort.SliceStable(ds, func(i, j int) bool {
		if !ds[i].CreatedAt.Equal(ds[j].CreatedAt) {
			return ds[i].CreatedAt.Before(ds[j].CreatedAt)
		}
		return ds[i].ID < ds[j].ID
	})
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

// sessionBody is the JSON column shared by the SQL backends.
type sessionBody struct {
	Messages []domain.SessionMessage `json:"messages"`
	Graph    *domain.MeaningGraph    `json:"graph"`
}

func encodeSession(s *domain.Session) ([]byte, error) {
	body := sessionBody{Messages: s.Messages, Graph: s.Graph}
	if body.Messages == nil {
		body.Messages = []domain.SessionMessage{}
	}
	if body.Graph == nil {
		body.Graph = domain.NewMeaningGraph()
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return data, nil
}

func decodeSession(s *domain.Session, data []byte) error {
	var body sessionBody
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("decode session %s: %w", s.ID, err)
	}
	s.Messages = body.Messages
	s.Graph = body.Graph
	if s.Graph == nil {
		s.Graph = domain.NewMeaningGraph()
	}
	return nil
}

func encodeGraph(docID string, g *domain.MeaningGraph) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode graph %s: %w", docID, err)
	}
	return data, nil
}

func decodeGraph(docID string, data []byte) (*domain.MeaningGraph, error) {
	g := &domain.MeaningGraph{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("decode graph %s: %w", docID, err)
	}
	return g, nil
}
