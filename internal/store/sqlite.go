package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the local single-file backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and its schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			lang TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS graphs (
			doc_id TEXT PRIMARY KEY,
			graph TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func sqliteErr(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return ErrConflict
	}
	return err
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, d *domain.Document) error {
	stamp(&d.CreatedAt)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, text, lang, created_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Text, d.Lang, formatTime(d.CreatedAt),
	)
	return sqliteErr(err)
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	d := &domain.Document{}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, lang, created_at FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.Text, &d.Lang, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d.CreatedAt = parseTime(created)
	return d, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, lang, created_at FROM documents`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		var created string
		if err := rows.Scan(&d.ID, &d.Text, &d.Lang, &created); err != nil {
			return nil, err
		}
		d.CreatedAt = parseTime(created)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortDocuments(docs)
	return docs, nil
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := affected(tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM graphs WHERE doc_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveGraph(ctx context.Context, docID string, g *domain.MeaningGraph) error {
	data, err := encodeGraph(docID, g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO graphs (doc_id, graph, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET graph = excluded.graph, updated_at = excluded.updated_at`,
		docID, string(data), formatTime(time.Now()),
	)
	return err
}

func (s *SQLiteStore) GetGraph(ctx context.Context, docID string) (*domain.MeaningGraph, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT graph FROM graphs WHERE doc_id = ?`, docID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeGraph(docID, []byte(data))
}

func (s *SQLiteStore) DeleteGraph(ctx context.Context, docID string) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM graphs WHERE doc_id = ?`, docID))
}

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *domain.Session) error {
	stamp(&sess.CreatedAt)
	stamp(&sess.UpdatedAt)
	body, err := encodeSession(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Name, string(body), formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return sqliteErr(err)
	}
	return decodeSession(sess, body)
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	sess := &domain.Session{}
	var body, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, body, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Name, &body, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sess.CreatedAt = parseTime(created)
	sess.UpdatedAt = parseTime(updated)
	if err := decodeSession(sess, []byte(body)); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]domain.SessionMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, body, created_at, updated_at FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.SessionMetadata{}
	for rows.Next() {
		var sess domain.Session
		var body, created, updated string
		if err := rows.Scan(&sess.ID, &sess.Name, &body, &created, &updated); err != nil {
			return nil, err
		}
		sess.CreatedAt = parseTime(created)
		sess.UpdatedAt = parseTime(updated)
		if err := decodeSession(&sess, []byte(body)); err != nil {
			return nil, err
		}
		out = append(out, sess.Metadata())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSessions(out)
	return out, nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	body, err := encodeSession(sess)
	if err != nil {
		return err
	}
	return affected(s.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, body = ?, updated_at = ? WHERE id = ?`,
		sess.Name, string(body), formatTime(sess.UpdatedAt), sess.ID,
	))
}

func (s *SQLiteStore) RenameSession(ctx context.Context, id, name string) error {
	return affected(s.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?`,
		name, formatTime(time.Now()), id,
	))
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id))
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
