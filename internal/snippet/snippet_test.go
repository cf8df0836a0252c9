package snippet

import (
	"strings"
	"testing"
)

func TestExtractClampsAtEnd(t *testing.T) {
	content := strings.Repeat("a", 150) + "needle" + strings.Repeat("b", 44)
	if len(content) != 200 {
		t.Fatalf("fixture length = %d", len(content))
	}
	got := Extract(content, "needle", 50, 100)
	want := Ellipsis + content[100:200] + Ellipsis
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractClampsAtStart(t *testing.T) {
	content := "needle in a haystack of considerable length for testing purposes"
	got := Extract(content, "needle", 50, 10)
	want := Ellipsis + content[:16] + Ellipsis
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractWindow(t *testing.T) {
	content := strings.Repeat("x", 100) + "Campaign" + strings.Repeat("y", 100)
	got := Extract(content, "campaign", 10, 5)
	want := Ellipsis + strings.Repeat("x", 10) + "Campaign" + strings.Repeat("y", 5) + Ellipsis
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractQueryAbsent(t *testing.T) {
	content := strings.Repeat("z", 300)
	got := Extract(content, "missing", 50, 50)
	want := Ellipsis + content[:len("missing")+50] + Ellipsis
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtractEmptyContent(t *testing.T) {
	if got := Extract("", "anything", 50, 50); got != Ellipsis+Ellipsis {
		t.Errorf("Extract on empty content = %q", got)
	}
}

func TestExtractFirstOccurrence(t *testing.T) {
	content := "alpha STRATEGY beta strategy gamma"
	got := Extract(content, "strategy", 0, 0)
	if got != Ellipsis+"STRATEGY"+Ellipsis {
		t.Errorf("Extract = %q", got)
	}
}

func TestExtractRuneBoundaries(t *testing.T) {
	content := "ééééé target ééééé"
	got := Extract(content, "target", 3, 3)
	inner := strings.TrimSuffix(strings.TrimPrefix(got, Ellipsis), Ellipsis)
	if !strings.Contains(inner, "target") {
		t.Fatalf("snippet %q lost the match", got)
	}
	for _, r := range inner {
		if r == '�' {
			t.Fatalf("snippet %q contains a broken rune", got)
		}
	}
}

func TestExtractRegexMetacharacters(t *testing.T) {
	content := "price is $5 (approx.) today"
	got := Extract(content, "(approx.)", 0, 0)
	if got != Ellipsis+"(approx.)"+Ellipsis {
		t.Errorf("Extract = %q", got)
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		query string
		want  string
	}{
		{"single", "the campaign ran", "campaign", "the [campaign] ran"},
		{"case preserved", "Campaign and CAMPAIGN", "campaign", "[Campaign] and [CAMPAIGN]"},
		{"no match", "nothing here", "campaign", "nothing here"},
		{"blank query", "nothing here", "  ", "nothing here"},
		{"metacharacters", "a+b and a+b", "a+b", "[a+b] and [a+b]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Highlight(tt.s, tt.query, "[", "]"); got != tt.want {
				t.Errorf("Highlight = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHighlightHTMLEscapes(t *testing.T) {
	got := HighlightHTML("<b>memo</b> & more", "memo")
	want := "&lt;b&gt;<strong>memo</strong>&lt;/b&gt; &amp; more"
	if got != want {
		t.Errorf("HighlightHTML = %q, want %q", got, want)
	}
}
