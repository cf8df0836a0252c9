package retrieval

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/docsearch/internal/domain"
)

// Result is one search hit.
type Result struct {
	ID       string          `json:"id"`
	Filename string          `json:"filename"`
	Snippet  string          `json:"snippet"`
	Category domain.Category `json:"category"`
	// Score is 1 for keyword matches and the cosine distance for vector
	// matches.
	Score float32 `json:"score"`
	// Highlighted is Snippet as escaped HTML with matches in <strong>.
	Highlighted string `json:"highlighted"`
}

// FormatResults renders search results as human-readable text.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Result %d (score: %.4f) ---\n", i+1, r.Score))
		sb.WriteString(fmt.Sprintf("File: %s\n", r.Filename))
		sb.WriteString(fmt.Sprintf("Category: %s\n", r.Category))
		sb.WriteString(fmt.Sprintf("ID: %s\n", r.ID))
		sb.WriteString("\n")
		sb.WriteString(r.Snippet)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
