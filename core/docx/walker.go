package docx

import (
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/bookpipe/core"
	"github.com/gaurav-prasanna/bookpipe/core/resources"
)

// walker emits Markdown while traversing the body block tree. The resource
// map is read-only; recoverable issues become notes on the document.
type walker struct {
	file     *File
	refs     *resources.Map
	doc      *core.Document
	inert    bool // no-images mode: drawings are dropped silently
	out      strings.Builder
	counters map[counterKey]int
}

// counterKey tracks ordered-list counters per numbering definition and
// nesting level. Counters persist for the whole document.
type counterKey struct {
	numID int
	level int
}

// walk converts the parsed body to Markdown.
func walk(f *File, refs *resources.Map, doc *core.Document, inert bool) string {
	w := &walker{
		file:     f,
		refs:     refs,
		doc:      doc,
		inert:    inert,
		counters: make(map[counterKey]int),
	}
	for _, blk := range f.Body.Blocks {
		w.block(blk)
	}
	return w.out.String()
}

func (w *walker) block(b Block) {
	switch {
	case b.Para != nil:
		w.paragraph(b.Para)
	case b.Table != nil:
		w.table(b.Table)
	}
}

func (w *walker) paragraph(p *Paragraph) {
	level := 0
	var num *NumProps
	if p.Props != nil {
		if p.Props.Style != nil {
			level = headingLevel(p.Props.Style.Val)
		}
		if p.Props.Num != nil && p.Props.Num.ID != nil {
			num = p.Props.Num
		}
	}

	inline := w.inlineContent(p)
	if strings.TrimSpace(inline) == "" && level == 0 && num == nil {
		w.out.WriteByte('\n')
		return
	}

	switch {
	case level > 0:
		w.out.WriteString(strings.Repeat("#", level))
		w.out.WriteByte(' ')
		w.out.WriteString(strings.TrimSpace(inline))
		w.out.WriteString("\n\n")
	case num != nil:
		lvl := 0
		if num.Level != nil {
			lvl = num.Level.Val
		}
		item := strings.TrimSpace(inline)
		// A run-level break inside a list item must not split it across
		// Markdown lines.
		item = strings.ReplaceAll(item, "\n", "<br>")
		w.out.WriteString(strings.Repeat("  ", lvl))
		w.out.WriteString(w.listMarker(num.ID.Val, lvl))
		w.out.WriteByte(' ')
		w.out.WriteString(item)
		w.out.WriteByte('\n')
	default:
		w.out.WriteString(strings.TrimSpace(inline))
		w.out.WriteString("\n\n")
	}
}

// headingLevel maps a paragraph style identifier to a Markdown heading
// level; 0 means plain paragraph. Title and Subtitle map to levels 1 and 2.
func headingLevel(styleID string) int {
	switch strings.ReplaceAll(strings.ToLower(styleID), " ", "") {
	case "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	return 0
}

// inlineContent renders the paragraph's runs and hyperlinks in order.
func (w *walker) inlineContent(p *Paragraph) string {
	var b strings.Builder
	for _, in := range p.Inlines {
		switch {
		case in.Run != nil:
			text := w.runText(in.Run)
			if text != "" {
				b.WriteString(formatRun(text, in.Run.Props))
			}
		case in.Link != nil:
			b.WriteString(w.hyperlink(in.Link))
		}
	}
	return b.String()
}

// runText flattens a run's content: text, breaks, tabs, and any drawings
// resolved to image markup.
func (w *walker) runText(r *Run) string {
	var b strings.Builder
	for _, c := range r.Content {
		switch {
		case c.IsText:
			b.WriteString(c.Text)
		case c.Break:
			b.WriteByte('\n')
		case c.Tab:
			b.WriteByte('\t')
		case c.Drawing != nil:
			b.WriteString(w.drawing(c.Drawing))
		}
	}
	return b.String()
}

// formatRun wraps text in Markdown emphasis markers per the run properties.
// Strikethrough is applied innermost, then bold/italic, so nesting stays
// well-formed and reversible.
func formatRun(text string, props *RunProps) string {
	if props == nil || strings.TrimSpace(text) == "" {
		return text
	}

	bold := props.Bold.On()
	italic := props.Italic.On()
	strike := props.Strike.On() || props.DStrike.On()

	if strike {
		text = "~~" + text + "~~"
	}
	switch {
	case bold && italic:
		text = "***" + text + "***"
	case bold:
		text = "**" + text + "**"
	case italic:
		text = "*" + text + "*"
	}
	return text
}

// hyperlink renders an internal anchor or an external link resolved through
// the relationships part. An unresolved relationship renders the link text
// alone, never broken syntax.
func (w *walker) hyperlink(h *Hyperlink) string {
	var text strings.Builder
	for i := range h.Runs {
		text.WriteString(w.runText(&h.Runs[i]))
	}
	display := text.String()

	if h.Anchor != "" {
		return "[" + display + "](#" + h.Anchor + ")"
	}

	if h.RelID != "" {
		if rel, ok := w.file.Rels[h.RelID]; ok {
			if display == "" {
				return rel.Target
			}
			return "[" + display + "](" + rel.Target + ")"
		}
		w.doc.AddNote("docx", "unresolved hyperlink relationship %q", h.RelID)
	}
	return display
}

// drawing resolves the image chain drawing -> blip embed id -> relationship
// -> mapped resource. Any broken link skips the image with a note; in
// no-images mode drawings are dropped silently.
func (w *walker) drawing(d *Drawing) string {
	if w.inert {
		return ""
	}

	ref := d.Inline
	if ref == nil {
		ref = d.Anchor
	}
	if ref == nil || len(ref.Graphic.Data.Pics) == 0 {
		return ""
	}

	embed := ref.Graphic.Data.Pics[0].BlipFill.Blip.Embed
	if embed == "" {
		w.doc.AddNote("docx", "drawing without an embedded-object id, skipped")
		return ""
	}

	rel, ok := w.file.Rels[embed]
	if !ok {
		w.doc.AddNote("docx", "unresolved drawing relationship %q, image skipped", embed)
		return ""
	}

	mapped, ok := w.refs.Resolve(rel.Target)
	if !ok {
		w.doc.AddNote("docx", "image %s not found in container, skipped", rel.Target)
		return ""
	}
	return "![" + ref.DocProps.Descr + "](" + mapped + ")"
}

// listMarker resolves the bullet-vs-ordered marker for a list item through
// the numbering definitions. Ordered formats keep a per-(numId, level)
// counter; anything unresolved falls back to a bullet.
func (w *walker) listMarker(numID, level int) string {
	switch w.file.Numbering.Format(numID, level) {
	case "decimal", "upperRoman", "lowerRoman", "upperLetter", "lowerLetter":
		key := counterKey{numID: numID, level: level}
		w.counters[key]++
		return strconv.Itoa(w.counters[key]) + "."
	default:
		return "-"
	}
}

// table renders a Markdown table from the row grid. The first row is a
// header unless tblLook explicitly disables it; a tblHeader mark on the
// first row forces it. Headerless tables get a synthesized empty header row
// so the separator never mislabels a data row.
func (w *walker) table(t *Table) {
	var rows [][]string
	for i := range t.Rows {
		var cells []string
		for j := range t.Rows[i].Cells {
			cells = append(cells, w.cellText(&t.Rows[i].Cells[j]))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	if !w.hasHeaderRow(t) {
		rows = append([][]string{make([]string, cols)}, rows...)
	}

	for i, row := range rows {
		w.out.WriteByte('|')
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			w.out.WriteByte(' ')
			w.out.WriteString(cell)
			w.out.WriteString(" |")
		}
		w.out.WriteByte('\n')

		if i == 0 {
			w.out.WriteByte('|')
			for j := 0; j < cols; j++ {
				w.out.WriteString(" --- |")
			}
			w.out.WriteByte('\n')
		}
	}
	w.out.WriteByte('\n')
}

// hasHeaderRow applies the documented header policy: first row is a header
// unless tblLook carries firstRow="0"/"false"; an explicit tblHeader mark on
// the first row always wins.
func (w *walker) hasHeaderRow(t *Table) bool {
	if len(t.Rows) > 0 && t.Rows[0].Props != nil && t.Rows[0].Props.Header.On() {
		return true
	}
	if t.Props != nil && t.Props.Look != nil {
		switch strings.ToLower(t.Props.Look.FirstRow) {
		case "0", "false":
			return false
		}
	}
	return true
}

// cellText joins a cell's paragraphs with <br>, keeping the table on one
// Markdown line.
func (w *walker) cellText(c *TableCell) string {
	var parts []string
	for i := range c.Paras {
		text := strings.TrimSpace(w.inlineContent(&c.Paras[i]))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "<br>")
}
