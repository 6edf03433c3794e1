package docx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/bookpipe/core"
	"github.com/gaurav-prasanna/bookpipe/core/resources"
)

// --- construction helpers ---

func textRun(text string, props *RunProps) Run {
	return Run{
		Props:   props,
		Content: []RunChild{{Text: text, IsText: true}},
	}
}

func para(props *ParaProps, runs ...Run) *Paragraph {
	p := &Paragraph{Props: props}
	for i := range runs {
		p.Inlines = append(p.Inlines, Inline{Run: &runs[i]})
	}
	return p
}

func styled(style string) *ParaProps {
	return &ParaProps{Style: &ValAttr{Val: style}}
}

func numbered(numID, level int) *ParaProps {
	return &ParaProps{Num: &NumProps{
		ID:    &IntVal{Val: numID},
		Level: &IntVal{Val: level},
	}}
}

// testFile builds a File with a bullet list (numId 1) and an ordered list
// (numId 2) defined at levels 0 and 1.
func testFile(blocks ...Block) *File {
	return &File{
		Body: Body{Blocks: blocks},
		Rels: make(map[string]Relationship),
		Numbering: &Numbering{
			abstract: map[int]abstractNum{
				10: {ID: 10, Levels: []numLevel{
					{Level: 0, Format: &ValAttr{Val: "bullet"}},
					{Level: 1, Format: &ValAttr{Val: "bullet"}},
				}},
				20: {ID: 20, Levels: []numLevel{
					{Level: 0, Format: &ValAttr{Val: "decimal"}},
					{Level: 1, Format: &ValAttr{Val: "decimal"}},
				}},
			},
			nums: map[int]int{1: 10, 2: 20},
		},
	}
}

func walkBlocks(t *testing.T, f *File) (string, *core.Document) {
	t.Helper()
	doc := &core.Document{}
	return walk(f, resources.Empty(), doc, false), doc
}

// --- paragraph and heading tests ---

func TestHeadingStyles(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{"Heading1", "# Intro\n\n"},
		{"Heading2", "## Intro\n\n"},
		{"heading3", "### Intro\n\n"},
		{"Heading 4", "#### Intro\n\n"},
		{"Heading6", "###### Intro\n\n"},
		{"Title", "# Intro\n\n"},
		{"Subtitle", "## Intro\n\n"},
		{"Quote", "Intro\n\n"},
		{"", "Intro\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			f := testFile(Block{Para: para(styled(tt.style), textRun("Intro", nil))})
			got, _ := walkBlocks(t, f)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeading2StartsWithMarker(t *testing.T) {
	f := testFile(Block{Para: para(styled("Heading2"), textRun("Background", nil))})
	got, _ := walkBlocks(t, f)
	assert.True(t, strings.HasPrefix(got, "## "), "got %q", got)
}

func TestEmptyParagraphEmitsBlank(t *testing.T) {
	f := testFile(
		Block{Para: para(nil, textRun("before", nil))},
		Block{Para: para(nil)},
		Block{Para: para(nil, textRun("after", nil))},
	)
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "before\n\n\nafter\n\n", got)
}

// --- list tests ---

func TestBulletList(t *testing.T) {
	f := testFile(
		Block{Para: para(numbered(1, 0), textRun("alpha", nil))},
		Block{Para: para(numbered(1, 0), textRun("beta", nil))},
	)
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "- alpha\n- beta\n", got)
}

func TestOrderedListCountsAndNests(t *testing.T) {
	f := testFile(
		Block{Para: para(numbered(2, 0), textRun("first", nil))},
		Block{Para: para(numbered(2, 1), textRun("nested", nil))},
		Block{Para: para(numbered(2, 0), textRun("second", nil))},
	)
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "1. first\n  1. nested\n2. second\n", got)
}

func TestListItemWithBreakStaysOnOneLine(t *testing.T) {
	r := Run{Content: []RunChild{
		{Text: "first line", IsText: true},
		{Break: true},
		{Text: "second line", IsText: true},
	}}
	f := testFile(Block{Para: &Paragraph{
		Props:   numbered(1, 0),
		Inlines: []Inline{{Run: &r}},
	}})

	got, _ := walkBlocks(t, f)
	assert.Equal(t, "- first line<br>second line\n", got)
}

func TestUnresolvedNumberingFallsBackToBullet(t *testing.T) {
	f := testFile(Block{Para: para(numbered(99, 0), textRun("item", nil))})
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "- item\n", got)
}

// --- inline formatting tests ---

func TestRunFormatting(t *testing.T) {
	on := &Toggle{}
	tests := []struct {
		name  string
		props *RunProps
		want  string
	}{
		{"plain", nil, "word"},
		{"bold", &RunProps{Bold: on}, "**word**"},
		{"italic", &RunProps{Italic: on}, "*word*"},
		{"bold italic", &RunProps{Bold: on, Italic: on}, "***word***"},
		{"strike", &RunProps{Strike: on}, "~~word~~"},
		{"double strike", &RunProps{DStrike: on}, "~~word~~"},
		{"bold strike", &RunProps{Bold: on, Strike: on}, "**~~word~~**"},
		{"all combined", &RunProps{Bold: on, Italic: on, Strike: on}, "***~~word~~***"},
		{"bold disabled via val", &RunProps{Bold: &Toggle{Val: "0"}}, "word"},
		{"bold disabled via false", &RunProps{Bold: &Toggle{Val: "false"}}, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRun("word", tt.props))
		})
	}
}

func TestWhitespaceRunsNotWrapped(t *testing.T) {
	on := &Toggle{}
	assert.Equal(t, "   ", formatRun("   ", &RunProps{Bold: on}))
}

func TestBreakAndTab(t *testing.T) {
	r := Run{Content: []RunChild{
		{Text: "a", IsText: true},
		{Break: true},
		{Text: "b", IsText: true},
		{Tab: true},
		{Text: "c", IsText: true},
	}}
	f := testFile(Block{Para: &Paragraph{Inlines: []Inline{{Run: &r}}}})
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "a\nb\tc\n\n", got)
}

// --- hyperlink tests ---

func TestHyperlinks(t *testing.T) {
	f := testFile()
	f.Rels["rId5"] = Relationship{ID: "rId5", Target: "https://example.com", TargetMode: "External"}

	tests := []struct {
		name string
		link Hyperlink
		want string
	}{
		{
			name: "internal anchor",
			link: Hyperlink{Anchor: "section-2", Runs: []Run{textRun("jump", nil)}},
			want: "[jump](#section-2)\n\n",
		},
		{
			name: "external resolved",
			link: Hyperlink{RelID: "rId5", Runs: []Run{textRun("site", nil)}},
			want: "[site](https://example.com)\n\n",
		},
		{
			name: "external without text renders url",
			link: Hyperlink{RelID: "rId5"},
			want: "https://example.com\n\n",
		},
		{
			name: "unresolved renders text alone",
			link: Hyperlink{RelID: "rIdMissing", Runs: []Run{textRun("dangling", nil)}},
			want: "dangling\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := tt.link
			f.Body.Blocks = []Block{{Para: &Paragraph{Inlines: []Inline{{Link: &link}}}}}
			got, _ := walkBlocks(t, f)
			assert.Equal(t, tt.want, got)
		})
	}
}

// --- drawing tests ---

func drawingFor(embed string) *Drawing {
	ref := &DrawingRef{
		DocProps: DocProps{Descr: "diagram"},
		Graphic: Graphic{Data: GraphicData{Pics: []Pic{
			{BlipFill: BlipFill{Blip: Blip{Embed: embed}}},
		}}},
	}
	return &Drawing{Inline: ref}
}

func TestDrawingResolvedThroughChain(t *testing.T) {
	f := testFile()
	f.Rels["rId7"] = Relationship{ID: "rId7", Target: "media/image1.png"}

	refs, _ := resources.Build([]core.ImageResource{
		{OriginalRef: "media/image1.png", Data: []byte("png-bytes")},
	})

	r := Run{Content: []RunChild{{Drawing: drawingFor("rId7")}}}
	f.Body.Blocks = []Block{{Para: &Paragraph{Inlines: []Inline{{Run: &r}}}}}

	doc := &core.Document{}
	got := walk(f, refs, doc, false)
	assert.Equal(t, "![diagram](images/image1.png)\n\n", got)
	assert.Empty(t, doc.Notes)
}

func TestBrokenImageChainIsNonFatal(t *testing.T) {
	f := testFile(
		Block{Para: para(nil, textRun("before", nil))},
		Block{Para: &Paragraph{Inlines: []Inline{{Run: &Run{
			Content: []RunChild{{Drawing: drawingFor("rIdMissing")}},
		}}}}},
		Block{Para: para(nil, textRun("after", nil))},
	)

	got, doc := walkBlocks(t, f)
	assert.Contains(t, got, "before")
	assert.Contains(t, got, "after")
	assert.NotContains(t, got, "![")
	require.Len(t, doc.Notes, 1)
	assert.Contains(t, doc.Notes[0].Detail, "rIdMissing")
}

func TestBrokenImageChainSilentInNoImagesMode(t *testing.T) {
	f := testFile(Block{Para: &Paragraph{Inlines: []Inline{{Run: &Run{
		Content: []RunChild{{Drawing: drawingFor("rIdMissing")}},
	}}}}})

	doc := &core.Document{}
	got := walk(f, resources.Empty(), doc, true)
	assert.NotContains(t, got, "![")
	assert.Empty(t, doc.Notes, "drawings are dropped without notes when images are off")
}

func TestDrawingInertInNoImagesMode(t *testing.T) {
	f := testFile()
	f.Rels["rId7"] = Relationship{ID: "rId7", Target: "media/image1.png"}
	r := Run{Content: []RunChild{{Drawing: drawingFor("rId7")}}}
	f.Body.Blocks = []Block{{Para: &Paragraph{Inlines: []Inline{{Run: &r}}}}}

	doc := &core.Document{}
	got := walk(f, resources.Empty(), doc, true)
	assert.NotContains(t, got, "![")
	assert.Empty(t, doc.Notes)
}

// --- table tests ---

func cell(text string) TableCell {
	return TableCell{Paras: []Paragraph{*para(nil, textRun(text, nil))}}
}

func TestTableWithHeader(t *testing.T) {
	f := testFile(Block{Table: &Table{
		Rows: []TableRow{
			{Cells: []TableCell{cell("Name"), cell("Age")}},
			{Cells: []TableCell{cell("Ada"), cell("36")}},
		},
	}})
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "| Name | Age |\n| --- | --- |\n| Ada | 36 |\n\n", got)
}

func TestTableHeaderDisabledByLook(t *testing.T) {
	f := testFile(Block{Table: &Table{
		Props: &TableProps{Look: &TableLook{FirstRow: "0"}},
		Rows: []TableRow{
			{Cells: []TableCell{cell("Ada"), cell("36")}},
			{Cells: []TableCell{cell("Grace"), cell("45")}},
		},
	}})
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "|  |  |\n| --- | --- |\n| Ada | 36 |\n| Grace | 45 |\n\n", got)
}

func TestTableHeaderForcedByRowMark(t *testing.T) {
	f := testFile(Block{Table: &Table{
		Props: &TableProps{Look: &TableLook{FirstRow: "0"}},
		Rows: []TableRow{
			{
				Props: &RowProps{Header: &Toggle{}},
				Cells: []TableCell{cell("Name")},
			},
			{Cells: []TableCell{cell("Ada")}},
		},
	}})
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "| Name |\n| --- |\n| Ada |\n\n", got)
}

func TestRaggedRowsPadded(t *testing.T) {
	f := testFile(Block{Table: &Table{
		Rows: []TableRow{
			{Cells: []TableCell{cell("A"), cell("B"), cell("C")}},
			{Cells: []TableCell{cell("only")}},
		},
	}})
	got, _ := walkBlocks(t, f)
	assert.Equal(t, "| A | B | C |\n| --- | --- | --- |\n| only |  |  |\n\n", got)
}

func TestMultiParagraphCellJoinedWithBreaks(t *testing.T) {
	c := TableCell{Paras: []Paragraph{
		*para(nil, textRun("line one", nil)),
		*para(nil, textRun("line two", nil)),
	}}
	f := testFile(Block{Table: &Table{Rows: []TableRow{
		{Cells: []TableCell{c}},
	}}})
	got, _ := walkBlocks(t, f)
	assert.Contains(t, got, "| line one<br>line two |")
}
