package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

const (
	docPrefix     = "doc:"
	graphPrefix   = "graph:"
	sessionPrefix = "session:"
)

// MemoryStore keeps everything in process. Values are stored as JSON so
// callers never share memory with the store.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) put(key string, v any, mode func(string, any, time.Duration) error) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := mode(key, data, gocache.NoExpiration); err != nil {
		if _, found := s.cache.Get(key); found {
			return ErrConflict
		}
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) set(key string, v any, _ time.Duration) error {
	s.cache.Set(key, v, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) get(key string, v any) error {
	raw, found := s.cache.Get(key)
	if !found {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw.([]byte), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *MemoryStore) del(key string) error {
	if _, found := s.cache.Get(key); !found {
		return ErrNotFound
	}
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) CreateDocument(_ context.Context, d *domain.Document) error {
	stamp(&d.CreatedAt)
	return s.put(docPrefix+d.ID, d, s.cache.Add)
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	d := &domain.Document{}
	if err := s.get(docPrefix+id, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *MemoryStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	docs := []domain.Document{}
	for key := range s.cache.Items() {
		if !strings.HasPrefix(key, docPrefix) {
			continue
		}
		var d domain.Document
		if err := s.get(key, &d); err != nil {
			continue
		}
		docs = append(docs, d)
	}
	sortDocuments(docs)
	return docs, nil
}

// DeleteDocument also drops the document's graph.
func (s *MemoryStore) DeleteDocument(_ context.Context, id string) error {
	if err := s.del(docPrefix + id); err != nil {
		return err
	}
	s.cache.Delete(graphPrefix + id)
	return nil
}

func (s *MemoryStore) SaveGraph(_ context.Context, docID string, g *domain.MeaningGraph) error {
	return s.put(graphPrefix+docID, g, s.set)
}

func (s *MemoryStore) GetGraph(_ context.Context, docID string) (*domain.MeaningGraph, error) {
	g := &domain.MeaningGraph{}
	if err := s.get(graphPrefix+docID, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *MemoryStore) DeleteGraph(_ context.Context, docID string) error {
	return s.del(graphPrefix + docID)
}

func (s *MemoryStore) CreateSession(_ context.Context, sess *domain.Session) error {
	stamp(&sess.CreatedAt)
	stamp(&sess.UpdatedAt)
	if sess.Graph == nil {
		sess.Graph = domain.NewMeaningGraph()
	}
	if sess.Messages == nil {
		sess.Messages = []domain.SessionMessage{}
	}
	return s.put(sessionPrefix+sess.ID, sess, s.cache.Add)
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	sess := &domain.Session{}
	if err := s.get(sessionPrefix+id, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *MemoryStore) ListSessions(_ context.Context) ([]domain.SessionMetadata, error) {
	out := []domain.SessionMetadata{}
	for key := range s.cache.Items() {
		if !strings.HasPrefix(key, sessionPrefix) {
			continue
		}
		var sess domain.Session
		if err := s.get(key, &sess); err != nil {
			continue
		}
		out = append(out, sess.Metadata())
	}
	sortSessions(out)
	return out, nil
}

func (s *MemoryStore) SaveSession(_ context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.put(sessionPrefix+sess.ID, sess, s.cache.Replace)
}

func (s *MemoryStore) RenameSession(ctx context.Context, id, name string) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	sess.Name = name
	return s.SaveSession(ctx, sess)
}

func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	return s.del(sessionPrefix + id)
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
