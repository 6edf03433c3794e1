package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/bookpipe/core"
)

func renderDoc() *core.Document {
	return &core.Document{
		Meta: core.Metadata{Title: "Sample", Authors: []string{"A. Writer"}},
		Chapters: []core.Chapter{
			{Body: "# One\n\nfirst body\n"},
			{Body: "# Two\n\n- item\n\n```\ncode\n```\n"},
		},
		Images: []core.ImageResource{
			{OriginalRef: "media/pic.png", Filename: "images/pic.png", Data: []byte("binary")},
		},
		Notes: []core.Note{{Stage: "docx", Detail: "something recoverable"}},
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer()
	out, err := r.Render(renderDoc())
	require.NoError(t, err)

	assert.Contains(t, string(out), "# One\n\nfirst body\n\n---\n\n# Two\n")
	assert.Equal(t, ".md", r.Extension())
}

func TestJSONRenderer(t *testing.T) {
	r := NewJSONRenderer()
	out, err := r.Render(renderDoc())
	require.NoError(t, err)
	assert.Equal(t, ".json", r.Extension())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	meta, ok := decoded["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Sample", meta["title"])

	chapters, ok := decoded["chapters"].([]any)
	require.True(t, ok)
	assert.Len(t, chapters, 2)

	// Image binaries stay out of the JSON; only the assigned filename shows.
	assert.NotContains(t, string(out), "binary")
	assert.Contains(t, string(out), "images/pic.png")
	assert.Contains(t, string(out), "something recoverable")
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()
	out, err := r.Render(renderDoc())
	require.NoError(t, err)
	assert.Equal(t, ".pdf", r.Extension())

	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRendererEmptyDocument(t *testing.T) {
	out, err := NewPDFRenderer().Render(&core.Document{})
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
}

func TestCleanInlineMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**bold** text", "bold text"},
		{"~~gone~~", "gone"},
		{"a *slanted* word", "a slanted word"},
		{"`code` here", "code here"},
		{"[label](https://example.com)", "label"},
		{"![alt](images/pic.png)", "alt"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanInlineMarkdown(tt.in))
		})
	}
}
