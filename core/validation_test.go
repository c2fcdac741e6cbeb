package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasContent(t *testing.T) {
	tests := []struct {
		name    string
		article *Article
		want    bool
	}{
		{name: "nil", article: nil, want: false},
		{name: "empty", article: &Article{}, want: false},
		{name: "whitespace only", article: &Article{Title: "  ", Abstract: "\n\t"}, want: false},
		{name: "title", article: &Article{Title: "A"}, want: true},
		{name: "abstract", article: &Article{Abstract: "text"}, want: true},
		{name: "identifiers only", article: &Article{PMID: "1", DOI: "d"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasContent(tt.article))
		})
	}
}

func TestFilterArticles(t *testing.T) {
	in := []*Article{
		{PMID: "1", Title: "kept"},
		{PMID: "2", Title: " "},
		nil,
		{PMID: "3", Abstract: "kept too"},
	}

	out := FilterArticles(in)
	if assert.Len(t, out, 2) {
		assert.Equal(t, "1", out[0].PMID)
		assert.Equal(t, "3", out[1].PMID)
	}
}

func TestValidateEnrichment(t *testing.T) {
	valid := Enrichment{TLDR: "x", Tags: []string{}, KeyTerms: []string{}, Quotes: []string{"a", "b"}}
	assert.NoError(t, ValidateEnrichment(&valid))

	assert.ErrorIs(t, ValidateEnrichment(nil), ErrNilEnrichment)

	missingTags := valid
	missingTags.Tags = nil
	assert.ErrorIs(t, ValidateEnrichment(&missingTags), ErrMissingTags)

	missingTerms := valid
	missingTerms.KeyTerms = nil
	assert.ErrorIs(t, ValidateEnrichment(&missingTerms), ErrMissingKeyTerms)

	missingQuotes := valid
	missingQuotes.Quotes = nil
	assert.ErrorIs(t, ValidateEnrichment(&missingQuotes), ErrMissingQuotes)

	tooMany := valid
	tooMany.Quotes = []string{"a", "b", "c"}
	assert.ErrorIs(t, ValidateEnrichment(&tooMany), ErrTooManyQuotes)
}
