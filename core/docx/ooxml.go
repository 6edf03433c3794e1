// Package docx implements the DOCX format adapter: OOXML part parsing and a
// direct body walk that emits Markdown without an intermediate HTML stage.
package docx

import (
	"encoding/xml"
	"strings"
)

// The body is modelled as a tagged-variant block tree: each Block holds
// exactly one of the supported node kinds. New kinds are added by extending
// the variant set and the walker's switch.

// documentXML mirrors word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    Body     `xml:"body"`
}

// Body is the ordered sequence of block elements in the document body.
type Body struct {
	Blocks []Block
}

// Block is a tagged-variant body node: exactly one field is non-nil.
type Block struct {
	Para  *Paragraph
	Table *Table
}

// sdtBlock is a structured document tag wrapper; its content is spliced into
// the surrounding block sequence.
type sdtBlock struct {
	Content Body `xml:"sdtContent"`
}

// UnmarshalXML decodes body children in document order, preserving the
// paragraph/table interleaving that struct tags alone would lose.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				var p Paragraph
				if err := d.DecodeElement(&p, &el); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, Block{Para: &p})
			case "tbl":
				var t Table
				if err := d.DecodeElement(&t, &el); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, Block{Table: &t})
			case "sdt":
				var s sdtBlock
				if err := d.DecodeElement(&s, &el); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, s.Content.Blocks...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Paragraph is a w:p element: optional properties plus ordered inline
// content (runs and hyperlinks).
type Paragraph struct {
	Props   *ParaProps
	Inlines []Inline
}

// Inline is a tagged-variant inline node: exactly one field is non-nil.
type Inline struct {
	Run  *Run
	Link *Hyperlink
}

// UnmarshalXML keeps runs and hyperlinks in document order.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				var props ParaProps
				if err := d.DecodeElement(&props, &el); err != nil {
					return err
				}
				p.Props = &props
			case "r":
				var r Run
				if err := d.DecodeElement(&r, &el); err != nil {
					return err
				}
				p.Inlines = append(p.Inlines, Inline{Run: &r})
			case "hyperlink":
				var h Hyperlink
				if err := d.DecodeElement(&h, &el); err != nil {
					return err
				}
				p.Inlines = append(p.Inlines, Inline{Link: &h})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ParaProps is w:pPr: the style identifier and list-numbering properties.
type ParaProps struct {
	Style *ValAttr  `xml:"pStyle"`
	Num   *NumProps `xml:"numPr"`
}

// NumProps is w:numPr: the numbering definition id and nesting level.
type NumProps struct {
	Level *IntVal `xml:"ilvl"`
	ID    *IntVal `xml:"numId"`
}

// ValAttr is an element carrying a single w:val string attribute.
type ValAttr struct {
	Val string `xml:"val,attr"`
}

// IntVal is an element carrying a single integer w:val attribute.
type IntVal struct {
	Val int `xml:"val,attr"`
}

// Run is a w:r element: optional character properties plus ordered content.
type Run struct {
	Props   *RunProps
	Content []RunChild
}

// RunChild is a tagged-variant run node.
type RunChild struct {
	Text    string
	IsText  bool
	Break   bool
	Tab     bool
	Drawing *Drawing
}

// UnmarshalXML keeps text, breaks, tabs, and drawings in document order.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "rPr":
				var props RunProps
				if err := d.DecodeElement(&props, &el); err != nil {
					return err
				}
				r.Props = &props
			case "t":
				var t struct {
					Text string `xml:",chardata"`
				}
				if err := d.DecodeElement(&t, &el); err != nil {
					return err
				}
				r.Content = append(r.Content, RunChild{Text: t.Text, IsText: true})
			case "br", "cr":
				r.Content = append(r.Content, RunChild{Break: true})
				if err := d.Skip(); err != nil {
					return err
				}
			case "tab":
				r.Content = append(r.Content, RunChild{Tab: true})
				if err := d.Skip(); err != nil {
					return err
				}
			case "drawing":
				var dr Drawing
				if err := d.DecodeElement(&dr, &el); err != nil {
					return err
				}
				r.Content = append(r.Content, RunChild{Drawing: &dr})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// RunProps is w:rPr, reduced to the character properties Markdown can carry.
type RunProps struct {
	Bold    *Toggle `xml:"b"`
	Italic  *Toggle `xml:"i"`
	Strike  *Toggle `xml:"strike"`
	DStrike *Toggle `xml:"dstrike"`
}

// Toggle is an OOXML on/off property. A present element with no w:val (or a
// truthy value) is on; "0"/"false"/"off" switch it off.
type Toggle struct {
	Val string `xml:"val,attr"`
}

// On reports whether the toggle property is set and enabled.
func (t *Toggle) On() bool {
	if t == nil {
		return false
	}
	switch strings.ToLower(t.Val) {
	case "0", "false", "off":
		return false
	}
	return true
}

// Hyperlink is a w:hyperlink element. Anchor points inside the document;
// RelID resolves to an external URL through the relationships part.
type Hyperlink struct {
	Anchor string `xml:"anchor,attr"`
	RelID  string `xml:"id,attr"`
	Runs   []Run  `xml:"r"`
}

// Drawing is a w:drawing element holding an inline or anchored (floating)
// image reference.
type Drawing struct {
	Inline *DrawingRef `xml:"inline"`
	Anchor *DrawingRef `xml:"anchor"`
}

// DrawingRef carries the document properties (alt text) and the graphic
// chain down to the blip's embedded-object relationship id.
type DrawingRef struct {
	DocProps DocProps `xml:"docPr"`
	Graphic  Graphic  `xml:"graphic"`
}

// DocProps is wp:docPr; Descr holds the alt text.
type DocProps struct {
	Descr string `xml:"descr,attr"`
}

// Graphic is a:graphic.
type Graphic struct {
	Data GraphicData `xml:"graphicData"`
}

// GraphicData is a:graphicData; a picture drawing carries pic:pic children.
type GraphicData struct {
	Pics []Pic `xml:"pic"`
}

// Pic is pic:pic.
type Pic struct {
	BlipFill BlipFill `xml:"blipFill"`
}

// BlipFill is pic:blipFill.
type BlipFill struct {
	Blip Blip `xml:"blip"`
}

// Blip is a:blip; Embed is the r:embed relationship id of the image part.
type Blip struct {
	Embed string `xml:"embed,attr"`
}

// Table is a w:tbl element.
type Table struct {
	Props *TableProps `xml:"tblPr"`
	Rows  []TableRow  `xml:"tr"`
}

// TableProps is w:tblPr, reduced to the header-row hint.
type TableProps struct {
	Look *TableLook `xml:"tblLook"`
}

// TableLook carries the conditional-formatting flags; FirstRow signals a
// styled header row.
type TableLook struct {
	FirstRow string `xml:"firstRow,attr"`
}

// TableRow is a w:tr element.
type TableRow struct {
	Props *RowProps   `xml:"trPr"`
	Cells []TableCell `xml:"tc"`
}

// RowProps is w:trPr; TblHeader marks an explicit repeating header row.
type RowProps struct {
	Header *Toggle `xml:"tblHeader"`
}

// TableCell is a w:tc element; cells contain paragraphs.
type TableCell struct {
	Paras []Paragraph `xml:"p"`
}

// relationshipsXML mirrors word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []Relationship `xml:"Relationship"`
}

// Relationship links an r:id to a target (a media part or an external URL).
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// numberingXML mirrors word/numbering.xml.
type numberingXML struct {
	XMLName      xml.Name      `xml:"numbering"`
	AbstractNums []abstractNum `xml:"abstractNum"`
	Nums         []numDef      `xml:"num"`
}

type abstractNum struct {
	ID     int        `xml:"abstractNumId,attr"`
	Levels []numLevel `xml:"lvl"`
}

type numLevel struct {
	Level  int      `xml:"ilvl,attr"`
	Format *ValAttr `xml:"numFmt"`
}

type numDef struct {
	ID         int     `xml:"numId,attr"`
	AbstractID *IntVal `xml:"abstractNumId"`
}

// Numbering resolves (numId, level) pairs to their list number format.
type Numbering struct {
	abstract map[int]abstractNum
	nums     map[int]int // numId -> abstractNumId
}

// Format returns the numFmt value ("bullet", "decimal", ...) for the given
// numbering id and nesting level, or "" when the chain does not resolve.
func (n *Numbering) Format(numID, level int) string {
	if n == nil {
		return ""
	}
	absID, ok := n.nums[numID]
	if !ok {
		return ""
	}
	abs, ok := n.abstract[absID]
	if !ok {
		return ""
	}
	for _, lvl := range abs.Levels {
		if lvl.Level == level && lvl.Format != nil {
			return lvl.Format.Val
		}
	}
	return ""
}

// parseNumbering builds the Numbering lookup from word/numbering.xml.
func parseNumbering(content []byte) (*Numbering, error) {
	var raw numberingXML
	if err := xml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	n := &Numbering{
		abstract: make(map[int]abstractNum),
		nums:     make(map[int]int),
	}
	for _, abs := range raw.AbstractNums {
		n.abstract[abs.ID] = abs
	}
	for _, num := range raw.Nums {
		if num.AbstractID != nil {
			n.nums[num.ID] = num.AbstractID.Val
		}
	}
	return n, nil
}

// corePropsXML mirrors docProps/core.xml (Dublin Core fields).
type corePropsXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Creator     string   `xml:"creator"`
	Description string   `xml:"description"`
	Language    string   `xml:"language"`
}

// appPropsXML mirrors docProps/app.xml; Company fills the publisher field.
type appPropsXML struct {
	XMLName xml.Name `xml:"Properties"`
	Company string   `xml:"Company"`
}
