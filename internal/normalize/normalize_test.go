package normalize

import (
	"errors"
	"strings"
	"testing"
)

func TestTextPlain(t *testing.T) {
	got, err := Text("notes.txt", []byte("Q3 marketing *campaign* results"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "Q3 marketing *campaign* results" {
		t.Errorf("plain text must be unchanged, got %q", got)
	}
}

func TestTextStripsBOM(t *testing.T) {
	got, err := Text("bom.txt", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestTextRejectsBinary(t *testing.T) {
	tests := map[string][]byte{
		"nul byte":     []byte("abc\x00def"),
		"invalid utf8": {0xff, 0xfe, 0x41},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Text("upload.bin", data)
			if !errors.Is(err, ErrUnsupportedContent) {
				t.Errorf("expected ErrUnsupportedContent, got %v", err)
			}
		})
	}
}

func TestTextEmpty(t *testing.T) {
	got, err := Text("empty.txt", nil)
	if err != nil || got != "" {
		t.Errorf("Text(empty) = %q, %v", got, err)
	}
}

func TestMarkdown(t *testing.T) {
	src := "# Roadmap\n\nThe **new** feature ships in _Q3_.\nSee [the plan](http://example.com).\n\n- first item\n- second item\n\n```\ncode stays\n```\n"
	got := Markdown([]byte(src))

	for _, want := range []string{"Roadmap", "The new feature ships in Q3.", "See the plan.", "first item", "second item", "code stays"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
	for _, markup := range []string{"#", "**", "_Q3_", "](", "```", "- first"} {
		if strings.Contains(got, markup) {
			t.Errorf("markup %q survived:\n%s", markup, got)
		}
	}
}

func TestIsMarkdown(t *testing.T) {
	for name, want := range map[string]bool{
		"a.md": true, "b.MARKDOWN": true, "c.txt": false, "md": false,
	} {
		if got := IsMarkdown(name); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTextKeepsMarkdownRaw(t *testing.T) {
	src := "# Q4 memo\n\nSee **bold** and `code`."
	got, err := Text("notes.md", []byte(src))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != src {
		t.Errorf("Text(notes.md) = %q, want the raw upload %q", got, src)
	}
}

func TestEmbeddingText(t *testing.T) {
	tests := []struct {
		filename string
		content  string
		want     string
	}{
		{"notes.md", "# Q4 memo\n\nSee **bold** and `code`.", "Q4 memo\nSee bold and code."},
		{"notes.txt", "# not markdown **here**", "# not markdown **here**"},
		{"only-html.md", "<div>\n</div>\n", "<div>\n</div>\n"},
	}
	for _, tt := range tests {
		if got := EmbeddingText(tt.filename, tt.content); got != tt.want {
			t.Errorf("EmbeddingText(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
