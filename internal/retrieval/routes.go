package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docsearch/internal/domain"
	"github.com/ziadkadry99/docsearch/internal/normalize"
	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// RouteOptions bounds uploads.
type RouteOptions struct {
	// MaxUploadBytes caps the multipart body. Zero means 10 MiB.
	MaxUploadBytes int64
	// IngestTimeout bounds an upload's ingestion once it is detached from
	// the request. Zero means no bound beyond the embedder's own.
	IngestTimeout time.Duration
}

const defaultMaxUploadBytes = 10 << 20

// RegisterRoutes mounts the upload, search and document endpoints.
func RegisterRoutes(r chi.Router, p *Pipeline, opts RouteOptions) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	r.Post("/upload", handleUpload(p, opts))
	r.Get("/search", handleSearch(p))
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", handleList(p))
		r.Get("/{id}", handleGet(p))
	})
}

type uploadResponse struct {
	Message  string          `json:"message"`
	ID       string          `json:"id"`
	Filename string          `json:"filename"`
	Category domain.Category `json:"category"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

type documentSummary struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	Category  domain.Category `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	Size      int             `json:"size"`
}

type documentDetail struct {
	documentSummary
	Content string `json:"content"`
}

func summarize(d vectordb.Document) documentSummary {
	return documentSummary{
		ID:        d.ID,
		Filename:  d.Filename,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
		Size:      len(d.Content),
	}
}

func handleUpload(p *Pipeline, opts RouteOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxUploadBytes)
		if err := r.ParseMultipartForm(opts.MaxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid upload: "+err.Error())
			return
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded.")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Reading upload: "+err.Error())
			return
		}

		content, err := normalize.Text(header.Filename, data)
		if err != nil {
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}

		// Ingestion runs to completion even if the client goes away.
		ctx := context.WithoutCancel(r.Context())
		if opts.IngestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.IngestTimeout)
			defer cancel()
		}

		doc, err := p.Ingest(ctx, header.Filename, content)
		if err != nil {
			log.Printf("retrieval: upload %s: %v", header.Filename, err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		log.Printf("retrieval: uploaded %s as %s (%s)", doc.Filename, doc.Category, doc.ID)
		writeJSON(w, http.StatusOK, uploadResponse{
			Message:  "File uploaded and indexed successfully.",
			ID:       doc.ID,
			Filename: doc.Filename,
			Category: doc.Category,
		})
	}
}

func handleSearch(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("term")

		results, err := p.Search(r.Context(), term)
		if err != nil {
			if !errors.Is(err, domain.ErrEmptyInput) {
				log.Printf("retrieval: search %q: %v", term, err)
			}
			writeError(w, statusFor(err), err.Error())
			return
		}

		log.Printf("retrieval: search %q found %d result(s)", term, len(results))
		writeJSON(w, http.StatusOK, searchResponse{Results: results})
	}
}

func handleList(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := p.Documents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		out := make([]documentSummary, len(docs))
		for i, d := range docs {
			out[i] = summarize(d)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGet(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := p.Document(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, documentDetail{documentSummary: summarize(doc), Content: doc.Content})
	}
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmbeddingTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrEmbedding):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrDimensionMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
