package domain

import "context"

type DocumentStore interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type GraphStore interface {
	SaveGraph(ctx context.Context, docID string, g *MeaningGraph) error
	GetGraph(ctx context.Context, docID string) (*MeaningGraph, error)
	DeleteGraph(ctx context.Context, docID string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context) ([]SessionMetadata, error)
	// SaveSession replaces the stored graph and messages of an existing session.
	SaveSession(ctx context.Context, s *Session) error
	RenameSession(ctx context.Context, id, name string) error
	DeleteSession(ctx context.Context, id string) error
}

// Store is implemented by every persistence backend.
type Store interface {
	DocumentStore
	GraphStore
	SessionStore
	Close() error
}
