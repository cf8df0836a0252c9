package domain

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"Marketing", CategoryMarketing, false},
		{"product", CategoryProduct, false},
		{"INTERNAL", CategoryInternal, false},
		{"General", CategoryGeneral, false},
		{"finance", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if Category("Other").Valid() {
		t.Error("unexpected valid category Other")
	}
}

func TestEmbeddingTimeoutMatchesEmbedding(t *testing.T) {
	if !errors.Is(ErrEmbeddingTimeout, ErrEmbedding) {
		t.Error("ErrEmbeddingTimeout should match ErrEmbedding")
	}
	if errors.Is(ErrEmbedding, ErrEmbeddingTimeout) {
		t.Error("ErrEmbedding should not match ErrEmbeddingTimeout")
	}
}
