package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docsearch/internal/domain"
	"github.com/ziadkadry99/docsearch/internal/normalize"
	"github.com/ziadkadry99/docsearch/internal/retrieval"
)

// handleSearchDocuments runs a query through the retrieval pipeline.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	var category domain.Category
	if c := request.GetString("category", ""); c != "" {
		if category, err = domain.ParseCategory(c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	results, err := s.pipeline.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if category != "" {
		results = filterCategory(results, category)
	}
	if limit := request.GetInt("limit", 0); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. Add documents with upload_document or `docsearch ingest`."), nil
	}

	return mcp.NewToolResultText(retrieval.FormatResults(results)), nil
}

func filterCategory(results []retrieval.Result, c domain.Category) []retrieval.Result {
	out := results[:0]
	for _, r := range results {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// handleUploadDocument normalizes and ingests a document.
func (s *Server) handleUploadDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: filename"), nil
	}
	raw, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	content, err := normalize.Text(filename, []byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.pipeline.Ingest(ctx, filename, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("upload failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Indexed %s as %s (id %s).", doc.Filename, doc.Category, doc.ID)), nil
}

// handleListDocuments lists stored documents in insertion order.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.pipeline.Documents(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents indexed."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d document(s):\n", len(docs)))
	for _, d := range docs {
		sb.WriteString(fmt.Sprintf("- %s [%s] id=%s (%d bytes)\n", d.Filename, d.Category, d.ID, len(d.Content)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetDocument returns a document's full content.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	doc, err := s.pipeline.Document(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No document with id %q.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read document: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("# %s\nCategory: %s\n\n%s", doc.Filename, doc.Category, doc.Content)), nil
}
