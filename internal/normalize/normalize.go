// Package normalize validates uploaded bytes as text and prepares markdown
// for embedding.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ErrUnsupportedContent is returned for payloads that are not UTF-8 text.
var ErrUnsupportedContent = errors.New("unsupported content: not UTF-8 text")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// IsMarkdown reports whether filename has a Markdown extension.
func IsMarkdown(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Text validates data and returns it as text with any UTF-8 BOM removed.
// The content is otherwise returned as uploaded.
func Text(filename string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedContent)
	}
	return string(data), nil
}

// EmbeddingText returns the text to embed for a stored document. Markdown
// is reduced to plain text; if nothing is left the content is used as is.
func EmbeddingText(filename, content string) string {
	if !IsMarkdown(filename) {
		return content
	}
	if plain := Markdown([]byte(content)); plain != "" {
		return plain
	}
	return content
}

// Markdown renders src as plain text: markup is dropped, block elements
// end with a newline, code blocks are kept verbatim.
func Markdown(src []byte) string {
	doc := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
				endLine(&sb)
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.HardLineBreak() {
				sb.WriteByte('\n')
			} else if node.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(src))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

func endLine(sb *strings.Builder) {
	s := sb.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	sb.WriteByte('\n')
}
