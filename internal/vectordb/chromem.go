package vectordb

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/docsearch/internal/domain"
	"github.com/ziadkadry99/docsearch/internal/embeddings"
)

const collectionPrefix = "documents-"

// ChromemStore implements Store using a persistent chromem-go database.
// Every document must carry a vector. The collection is named after the
// vector dimension, so a database holds a single dimension. chromem
// normalises vectors on insert, so stored vectors come back with unit
// length.
type ChromemStore struct {
	db *chromem.DB
	ef chromem.EmbeddingFunc

	mu         sync.RWMutex
	collection *chromem.Collection // nil until the dimension is known
	seq        int
	dim        int
}

// NewChromemStore opens (or creates) a chromem database under dir. embedder
// backs the collection's embedding function for documents added without a
// vector; it may be nil. dimensions fixes the vector size up front; 0 adopts
// the size already on disk or the first insert.
func NewChromemStore(dir string, embedder embeddings.Embedder, dimensions int) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(filepath.Join(dir, "chromem"), true)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}

	s := &ChromemStore{db: db, dim: dimensions}
	if embedder != nil {
		s.ef = embeddings.ToChromemFunc(embedder, embeddings.IntentDocument)
	}

	for name := range db.ListCollections() {
		stored, err := strconv.Atoi(strings.TrimPrefix(name, collectionPrefix))
		if !strings.HasPrefix(name, collectionPrefix) || err != nil {
			continue
		}
		if dimensions > 0 && dimensions != stored {
			return nil, fmt.Errorf("%w: configured %d, collection has %d", domain.ErrDimensionMismatch, dimensions, stored)
		}
		s.dim = stored
	}

	if s.dim > 0 {
		if err := s.openCollection(); err != nil {
			return nil, err
		}
		s.seq = s.collection.Count()
	}
	return s, nil
}

func (s *ChromemStore) openCollection() error {
	col, err := s.db.GetOrCreateCollection(collectionPrefix+strconv.Itoa(s.dim), nil, s.ef)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Insert(ctx context.Context, doc Document) (Document, error) {
	if doc.Vector == nil {
		return Document{}, fmt.Errorf("chromem store requires a vector for %q", doc.Filename)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkDimension(s.dim, len(doc.Vector)); err != nil {
		return Document{}, err
	}
	if s.collection == nil {
		s.dim = len(doc.Vector)
		if err := s.openCollection(); err != nil {
			return Document{}, err
		}
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	err := s.collection.AddDocument(ctx, chromem.Document{
		ID:        doc.ID,
		Content:   doc.Content,
		Embedding: append([]float32(nil), doc.Vector...),
		Metadata: map[string]string{
			"filename":   doc.Filename,
			"category":   string(doc.Category),
			"created_at": doc.CreatedAt.Format(time.RFC3339Nano),
			"seq":        strconv.Itoa(s.seq + 1),
		},
	})
	if err != nil {
		return Document{}, fmt.Errorf("chromem add: %w", err)
	}

	s.seq++
	return doc, nil
}

func (s *ChromemStore) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	s.mu.RLock()
	col := s.collection
	s.mu.RUnlock()
	if col == nil {
		return Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	d, err := col.GetByID(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc, _ := fromChromem(d.ID, d.Content, d.Embedding, d.Metadata)
	return doc, nil
}

func (s *ChromemStore) Scan(ctx context.Context) ([]Document, error) {
	results, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs, nil
}

func (s *ChromemStore) QueryBySimilarity(ctx context.Context, vec []float32, k int) ([]Match, error) {
	s.mu.RLock()
	col, dim := s.collection, s.dim
	s.mu.RUnlock()
	if col == nil || col.Count() == 0 {
		return nil, nil
	}
	if err := checkDimension(dim, len(vec)); err != nil {
		return nil, err
	}

	if isZero(vec) {
		docs, err := s.Scan(ctx)
		if err != nil {
			return nil, err
		}
		return rankBySimilarity(docs, vec, k)
	}

	n := col.Count()
	if k > 0 && k < n {
		n = k
	}
	results, err := col.QueryEmbedding(ctx, vec, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	matches := make([]seqMatch, len(results))
	for i, r := range results {
		doc, seq := fromChromem(r.ID, r.Content, r.Embedding, r.Metadata)
		dist := 1 - r.Similarity
		if dist < 0 {
			dist = 0
		}
		matches[i] = seqMatch{Match: Match{Document: doc, Distance: dist}, seq: seq}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].seq < matches[j].seq
	})

	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = m.Match
	}
	return out, nil
}

func (s *ChromemStore) QueryBySubstring(ctx context.Context, pattern string, withFilename bool) ([]Document, error) {
	docs, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(pattern)
	var out []Document
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Content), needle) ||
			(withFilename && strings.Contains(strings.ToLower(doc.Filename), needle)) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *ChromemStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collection == nil {
		return 0, nil
	}
	return s.collection.Count(), nil
}

// Close is a no-op: the persistent DB writes every document on insert.
func (s *ChromemStore) Close() error {
	return nil
}

type seqMatch struct {
	Match
	seq int
}

// all lists the collection by querying with nResults equal to the count.
// Results come back in insertion order.
func (s *ChromemStore) all(ctx context.Context) ([]seqMatch, error) {
	s.mu.RLock()
	col, dim := s.collection, s.dim
	s.mu.RUnlock()
	if col == nil {
		return nil, nil
	}
	count := col.Count()
	if count == 0 {
		return nil, nil
	}

	probe := make([]float32, dim)
	probe[0] = 1
	results, err := col.QueryEmbedding(ctx, probe, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem scan: %w", err)
	}

	out := make([]seqMatch, len(results))
	for i, r := range results {
		doc, seq := fromChromem(r.ID, r.Content, r.Embedding, r.Metadata)
		out[i] = seqMatch{Match: Match{Document: doc}, seq: seq}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out, nil
}

func fromChromem(id, content string, embedding []float32, md map[string]string) (Document, int) {
	seq, _ := strconv.Atoi(md["seq"])
	created, _ := time.Parse(time.RFC3339Nano, md["created_at"])
	cat, err := domain.ParseCategory(md["category"])
	if err != nil {
		cat = domain.CategoryGeneral
	}
	return Document{
		ID:        id,
		Filename:  md["filename"],
		Content:   content,
		Category:  cat,
		Vector:    append([]float32(nil), embedding...),
		CreatedAt: created,
	}, seq
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
