package vectordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docsearch/internal/db"
	"github.com/ziadkadry99/docsearch/internal/domain"
)

// SQLiteStore keeps documents in the documents table. Embeddings are stored
// as float32 blobs and ranked in Go.
type SQLiteStore struct {
	db *db.DB

	mu  sync.Mutex // serialises inserts so the first vector fixes dim
	dim int
}

// NewSQLiteStore opens a store over database. dimensions fixes the vector
// size up front; 0 adopts the size already on disk or the first insert.
func NewSQLiteStore(ctx context.Context, database *db.DB, dimensions int) (*SQLiteStore, error) {
	var stored int
	err := database.QueryRowContext(ctx,
		`SELECT dimensions FROM documents WHERE embedding IS NOT NULL ORDER BY seq LIMIT 1`).Scan(&stored)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading stored dimensions: %w", err)
	}

	dim := dimensions
	if stored > 0 {
		if dimensions > 0 && dimensions != stored {
			return nil, fmt.Errorf("%w: configured %d, database has %d", domain.ErrDimensionMismatch, dimensions, stored)
		}
		dim = stored
	}
	return &SQLiteStore{db: database, dim: dim}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Vector != nil {
		if err := checkDimension(s.dim, len(doc.Vector)); err != nil {
			return Document{}, err
		}
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, content, category, embedding, dimensions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.Content, string(doc.Category),
		encodeVector(doc.Vector), len(doc.Vector), doc.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Document{}, fmt.Errorf("inserting document: %w", err)
	}

	if doc.Vector != nil {
		s.dim = len(doc.Vector)
	}
	return doc, nil
}

const selectColumns = `SELECT id, filename, content, category, embedding, created_at FROM documents`

func (s *SQLiteStore) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStore) Scan(ctx context.Context) ([]Document, error) {
	return s.query(ctx, selectColumns+` ORDER BY seq`)
}

func (s *SQLiteStore) QueryBySimilarity(ctx context.Context, vec []float32, k int) ([]Match, error) {
	docs, err := s.query(ctx, selectColumns+` WHERE embedding IS NOT NULL ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	dim := s.dim
	s.mu.Unlock()
	if err := checkDimension(dim, len(vec)); err != nil {
		return nil, err
	}
	return rankBySimilarity(docs, vec, k)
}

// QueryBySubstring matches case-insensitively with Unicode folding: both
// sides are lowered before LIKE compares them.
func (s *SQLiteStore) QueryBySubstring(ctx context.Context, pattern string, withFilename bool) ([]Document, error) {
	like := "%" + escapeLike(strings.ToLower(pattern)) + "%"
	if withFilename {
		return s.query(ctx,
			selectColumns+` WHERE `+db.LowerFunc+`(content) LIKE ? ESCAPE '\' OR `+db.LowerFunc+`(filename) LIKE ? ESCAPE '\' ORDER BY seq`,
			like, like)
	}
	return s.query(ctx, selectColumns+` WHERE `+db.LowerFunc+`(content) LIKE ? ESCAPE '\' ORDER BY seq`, like)
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (Document, error) {
	var (
		doc       Document
		category  string
		blob      []byte
		createdAt string
	)
	if err := sc.Scan(&doc.ID, &doc.Filename, &doc.Content, &category, &blob, &createdAt); err != nil {
		return Document{}, err
	}

	cat, err := domain.ParseCategory(category)
	if err != nil {
		return Document{}, err
	}
	doc.Category = cat

	if doc.Vector, err = decodeVector(blob); err != nil {
		return Document{}, err
	}
	doc.CreatedAt = parseTime(createdAt)
	return doc, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes pattern match literally inside a LIKE expression.
func escapeLike(pattern string) string {
	return likeEscaper.Replace(pattern)
}
