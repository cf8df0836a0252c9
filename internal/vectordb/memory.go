package vectordb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docsearch/internal/domain"
)

// MemoryStore keeps documents in process memory for the lifetime of the
// process.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []Document
	dim  int
}

// NewMemoryStore creates an empty store. dimensions fixes the vector size up
// front; 0 lets the first inserted vector decide.
func NewMemoryStore(dimensions int) *MemoryStore {
	return &MemoryStore{dim: dimensions}
}

func (s *MemoryStore) Insert(_ context.Context, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Vector != nil {
		if err := checkDimension(s.dim, len(doc.Vector)); err != nil {
			return Document{}, err
		}
		s.dim = len(doc.Vector)
		doc.Vector = append([]float32(nil), doc.Vector...)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.docs = append(s.docs, doc)
	return doc, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func (s *MemoryStore) Scan(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

func (s *MemoryStore) QueryBySimilarity(_ context.Context, vec []float32, k int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return nil, nil
	}
	if err := checkDimension(s.dim, len(vec)); err != nil {
		return nil, err
	}
	return rankBySimilarity(s.docs, vec, k)
}

func (s *MemoryStore) QueryBySubstring(_ context.Context, pattern string, withFilename bool) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(pattern)
	var out []Document
	for _, doc := range s.docs {
		if strings.Contains(strings.ToLower(doc.Content), needle) ||
			(withFilename && strings.Contains(strings.ToLower(doc.Filename), needle)) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
