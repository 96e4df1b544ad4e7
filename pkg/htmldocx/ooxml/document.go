package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Namespaces used by the generated parts.
const (
	NamespaceMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Declaration is the XML declaration written at the top of every part.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Document represents word/document.xml.
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    Body     `xml:"body"`
}

// Body holds the paragraphs of a document followed by its section properties.
type Body struct {
	Paragraphs []Paragraph         `xml:"p"`
	Section    *SectionProperties `xml:"sectPr"`
}

// Paragraph represents a w:p element.
type Paragraph struct {
	Properties *ParagraphProperties `xml:"pPr"`
	Runs       []Run                `xml:"r"`
}

// ParagraphProperties carries the paragraph style and list membership.
type ParagraphProperties struct {
	Style     *Style               `xml:"pStyle"`
	Numbering *NumberingProperties `xml:"numPr"`
}

// Style references a named style, e.g. Heading2.
type Style struct {
	Val string `xml:"val,attr"`
}

// NumberingProperties ties a paragraph to a list definition and level.
type NumberingProperties struct {
	Level IntValue `xml:"ilvl"`
	NumID IntValue `xml:"numId"`
}

// IntValue is an element whose only content is an integer w:val attribute.
type IntValue struct {
	Val int `xml:"val,attr"`
}

// Run represents a w:r element. A run holds either text or a line break.
type Run struct {
	Properties *RunProperties `xml:"rPr"`
	Text       *Text          `xml:"t"`
	Break      *Break         `xml:"br"`
}

// RunProperties represents the run formatting this package emits.
type RunProperties struct {
	Bold      *Empty     `xml:"b"`
	Italic    *Empty     `xml:"i"`
	Underline *Underline `xml:"u"`
	Strike    *Empty     `xml:"strike"`
}

// Empty represents an empty element used as a boolean property.
type Empty struct{}

// Underline represents w:u.
type Underline struct {
	Val string `xml:"val,attr"`
}

// Text represents w:t.
type Text struct {
	Space   string `xml:"space,attr"`
	Content string `xml:",chardata"`
}

// Break represents w:br.
type Break struct{}

// SectionProperties describes page size and margins in twentieths of a point.
type SectionProperties struct {
	PageSize    PageSize    `xml:"pgSz"`
	PageMargins PageMargins `xml:"pgMar"`
}

// PageSize represents w:pgSz.
type PageSize struct {
	Width  int `xml:"w,attr"`
	Height int `xml:"h,attr"`
}

// PageMargins represents w:pgMar.
type PageMargins struct {
	Top    int `xml:"top,attr"`
	Right  int `xml:"right,attr"`
	Bottom int `xml:"bottom,attr"`
	Left   int `xml:"left,attr"`
	Header int `xml:"header,attr"`
	Footer int `xml:"footer,attr"`
	Gutter int `xml:"gutter,attr"`
}

// A4Section is the single fixed section used by every generated document:
// A4 portrait with one-inch margins.
func A4Section() *SectionProperties {
	return &SectionProperties{
		PageSize: PageSize{Width: 11906, Height: 16838},
		PageMargins: PageMargins{
			Top: 1440, Right: 1440, Bottom: 1440, Left: 1440,
			Header: 708, Footer: 708, Gutter: 0,
		},
	}
}

// NewTextRun returns a run holding text with the given properties.
func NewTextRun(props *RunProperties, text string) Run {
	return Run{Properties: props, Text: &Text{Space: "preserve", Content: text}}
}

// NewBreakRun returns a bare run holding a single line break.
func NewBreakRun() Run {
	return Run{Break: &Break{}}
}

// IsZero reports whether no property is set.
func (p *RunProperties) IsZero() bool {
	return p == nil || (p.Bold == nil && p.Italic == nil && p.Underline == nil && p.Strike == nil)
}

// Marshal serializes the document, including the XML declaration.
func (d *Document) Marshal() []byte {
	var b strings.Builder
	b.WriteString(Declaration)
	b.WriteString(`<w:document xmlns:w="` + NamespaceMain + `" xmlns:r="` + NamespaceRelationships + `">`)
	d.Body.WriteXML(&b)
	b.WriteString(`</w:document>`)
	return []byte(b.String())
}

// WriteXML writes the body. A body without paragraphs still gets one empty
// paragraph, since Word refuses documents without any.
func (body *Body) WriteXML(b *strings.Builder) {
	b.WriteString(`<w:body>`)
	if len(body.Paragraphs) == 0 {
		b.WriteString(`<w:p/>`)
	}
	for i := range body.Paragraphs {
		body.Paragraphs[i].WriteXML(b)
	}
	if body.Section != nil {
		body.Section.WriteXML(b)
	}
	b.WriteString(`</w:body>`)
}

// WriteXML writes the paragraph.
func (p *Paragraph) WriteXML(b *strings.Builder) {
	if p.Properties == nil && len(p.Runs) == 0 {
		b.WriteString(`<w:p/>`)
		return
	}
	b.WriteString(`<w:p>`)
	if p.Properties != nil {
		p.Properties.WriteXML(b)
	}
	for i := range p.Runs {
		p.Runs[i].WriteXML(b)
	}
	b.WriteString(`</w:p>`)
}

// WriteXML writes the paragraph properties.
func (p *ParagraphProperties) WriteXML(b *strings.Builder) {
	if p.Style == nil && p.Numbering == nil {
		return
	}
	b.WriteString(`<w:pPr>`)
	if p.Style != nil {
		writeValElement(b, "w:pStyle", Escape(p.Style.Val))
	}
	if p.Numbering != nil {
		b.WriteString(`<w:numPr>`)
		writeValElement(b, "w:ilvl", strconv.Itoa(p.Numbering.Level.Val))
		writeValElement(b, "w:numId", strconv.Itoa(p.Numbering.NumID.Val))
		b.WriteString(`</w:numPr>`)
	}
	b.WriteString(`</w:pPr>`)
}

// WriteXML writes the run. Text is escaped here.
func (r *Run) WriteXML(b *strings.Builder) {
	b.WriteString(`<w:r>`)
	if !r.Properties.IsZero() {
		r.Properties.WriteXML(b)
	}
	if r.Break != nil {
		b.WriteString(`<w:br/>`)
	}
	if r.Text != nil {
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(Escape(r.Text.Content))
		b.WriteString(`</w:t>`)
	}
	b.WriteString(`</w:r>`)
}

// WriteXML writes the run properties in schema order.
func (p *RunProperties) WriteXML(b *strings.Builder) {
	b.WriteString(`<w:rPr>`)
	if p.Bold != nil {
		b.WriteString(`<w:b/>`)
	}
	if p.Italic != nil {
		b.WriteString(`<w:i/>`)
	}
	if p.Strike != nil {
		b.WriteString(`<w:strike/>`)
	}
	if p.Underline != nil {
		writeValElement(b, "w:u", Escape(p.Underline.Val))
	}
	b.WriteString(`</w:rPr>`)
}

// WriteXML writes the section properties.
func (s *SectionProperties) WriteXML(b *strings.Builder) {
	fmt.Fprintf(b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, s.PageSize.Width, s.PageSize.Height)
	m := s.PageMargins
	fmt.Fprintf(b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="%d"/>`,
		m.Top, m.Right, m.Bottom, m.Left, m.Header, m.Footer, m.Gutter)
	b.WriteString(`</w:sectPr>`)
}

func writeValElement(b *strings.Builder, name, escapedVal string) {
	b.WriteString(`<`)
	b.WriteString(name)
	b.WriteString(` w:val="`)
	b.WriteString(escapedVal)
	b.WriteString(`"/>`)
}

// ParseDocument reads a word/document.xml part.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}

// Text returns the plain text of the paragraph, with breaks as newlines.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for i := range p.Runs {
		b.WriteString(p.Runs[i].PlainText())
	}
	return b.String()
}

// PlainText returns the run's text, or a newline for a break run.
func (r *Run) PlainText() string {
	if r.Break != nil {
		return "\n"
	}
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// StyleName returns the paragraph style, or "" when none is set.
func (p *Paragraph) StyleName() string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}
