package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/001_init.sql
var postgresSchema string

const uniqueViolation = "23505"

type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects, pings and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

func pgErr(err error) error {
	var pe *pgconn.PgError
	if errors.As(err, &pe) && pe.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

func rowsAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateDocument(ctx context.Context, d *domain.Document) error {
	stamp(&d.CreatedAt)
	_, err := s.db.Exec(ctx,
		`INSERT INTO documents (id, text, lang, created_at) VALUES ($1, $2, $3, $4)`,
		d.ID, d.Text, d.Lang, d.CreatedAt,
	)
	return pgErr(err)
}

func (s *PostgresStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	d := &domain.Document{}
	err := s.db.QueryRow(ctx,
		`SELECT id, text, lang, created_at FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.Text, &d.Lang, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, text, lang, created_at FROM documents ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Text, &d.Lang, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := rowsAffected(tx.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graphs WHERE doc_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) SaveGraph(ctx context.Context, docID string, g *domain.MeaningGraph) error {
	data, err := encodeGraph(docID, g)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO graphs (doc_id, graph, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (doc_id) DO UPDATE SET graph = EXCLUDED.graph, updated_at = now()`,
		docID, data,
	)
	return err
}

func (s *PostgresStore) GetGraph(ctx context.Context, docID string) (*domain.MeaningGraph, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT graph FROM graphs WHERE doc_id = $1`, docID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeGraph(docID, data)
}

func (s *PostgresStore) DeleteGraph(ctx context.Context, docID string) error {
	return rowsAffected(s.db.Exec(ctx, `DELETE FROM graphs WHERE doc_id = $1`, docID))
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *domain.Session) error {
	stamp(&sess.CreatedAt)
	stamp(&sess.UpdatedAt)
	body, err := encodeSession(sess)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO sessions (id, name, body, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.Name, body, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return pgErr(err)
	}
	return decodeSession(sess, body)
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	sess := &domain.Session{}
	var body []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, name, body, created_at, updated_at FROM sessions WHERE id = $1`, id,
	).Scan(&sess.ID, &sess.Name, &body, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := decodeSession(sess, body); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context) ([]domain.SessionMetadata, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, created_at, updated_at,
		        jsonb_array_length(COALESCE(body->'messages', '[]'::jsonb)),
		        jsonb_array_length(COALESCE(body->'graph'->'nodes', '[]'::jsonb)),
		        jsonb_array_length(COALESCE(body->'graph'->'edges', '[]'::jsonb)),
		        jsonb_array_length(COALESCE(body->'graph'->'diagnostics', '[]'::jsonb))
		 FROM sessions ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SessionMetadata{}
	for rows.Next() {
		var m domain.SessionMetadata
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt,
			&m.MessageCount, &m.NodeCount, &m.EdgeCount, &m.Diagnostics); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveSession(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	body, err := encodeSession(sess)
	if err != nil {
		return err
	}
	return rowsAffected(s.db.Exec(ctx,
		`UPDATE sessions SET name = $1, body = $2, updated_at = $3 WHERE id = $4`,
		sess.Name, body, sess.UpdatedAt, sess.ID,
	))
}

func (s *PostgresStore) RenameSession(ctx context.Context, id, name string) error {
	return rowsAffected(s.db.Exec(ctx,
		`UPDATE sessions SET name = $1, updated_at = now() WHERE id = $2`, name, id,
	))
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	return rowsAffected(s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id))
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
