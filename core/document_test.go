package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoined(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "empty document",
			doc:  Document{},
			want: "",
		},
		{
			name: "single chapter keeps its body",
			doc:  Document{Chapters: []Chapter{{Body: "one\n"}}},
			want: "one\n",
		},
		{
			name: "chapters separated by rules",
			doc:  Document{Chapters: []Chapter{{Body: "one\n"}, {Body: "two\n"}}},
			want: "one\n\n---\n\ntwo\n",
		},
		{
			name: "missing trailing newline added",
			doc:  Document{Chapters: []Chapter{{Body: "one"}, {Body: "two"}}},
			want: "one\n\n---\n\ntwo\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.Joined())
		})
	}
}

func TestAddNote(t *testing.T) {
	var doc Document
	doc.AddNote("epub", "skipping chapter %s", "ch1.xhtml")
	doc.AddNote("docx", "plain note")

	assert.Equal(t, []Note{
		{Stage: "epub", Detail: "skipping chapter ch1.xhtml"},
		{Stage: "docx", Detail: "plain note"},
	}, doc.Notes)
}
