package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Number formats used in w:numFmt.
const (
	FormatBullet  = "bullet"
	FormatDecimal = "decimal"
)

// MaxLevel is the deepest list level (w:ilvl) WordprocessingML allows.
const MaxLevel = 8

// Level indentation in twips: each level steps in by half an inch and hangs
// the marker a quarter inch to the left of the text.
const (
	levelIndentStep = 720
	levelHanging    = 360
)

var bulletGlyphs = []string{"•", "◦", "▪"}

// Numbering represents word/numbering.xml.
type Numbering struct {
	XMLName      xml.Name      `xml:"numbering"`
	AbstractNums []AbstractNum `xml:"abstractNum"`
	Nums         []Num         `xml:"num"`
}

// AbstractNum is a list definition shared by every w:num that references it.
type AbstractNum struct {
	ID     int     `xml:"abstractNumId,attr"`
	Levels []Level `xml:"lvl"`
}

// Level describes one nesting level of a list definition.
type Level struct {
	Index         int         `xml:"ilvl,attr"`
	Start         IntValue    `xml:"start"`
	Format        StringValue `xml:"numFmt"`
	Text          StringValue `xml:"lvlText"`
	Justification StringValue `xml:"lvlJc"`
	Indentation   Indentation `xml:"pPr>ind"`
}

// Indentation represents w:ind with left and hanging offsets.
type Indentation struct {
	Left    int `xml:"left,attr"`
	Hanging int `xml:"hanging,attr"`
}

// Num is a concrete numbering instance referenced by paragraphs via w:numId.
type Num struct {
	ID            int      `xml:"numId,attr"`
	AbstractNumID IntValue `xml:"abstractNumId"`
}

// StringValue is an element whose only content is a string w:val attribute.
type StringValue struct {
	Val string `xml:"val,attr"`
}

// NewAbstractNum returns a list definition with all nine levels using the
// given format (FormatBullet or FormatDecimal).
func NewAbstractNum(id int, format string) AbstractNum {
	levels := make([]Level, MaxLevel+1)
	for i := range levels {
		levels[i] = Level{
			Index:         i,
			Start:         IntValue{Val: 1},
			Format:        StringValue{Val: format},
			Text:          StringValue{Val: levelText(format, i)},
			Justification: StringValue{Val: "left"},
			Indentation: Indentation{
				Left:    levelIndentStep * (i + 1),
				Hanging: levelHanging,
			},
		}
	}
	return AbstractNum{ID: id, Levels: levels}
}

func levelText(format string, level int) string {
	if format == FormatBullet {
		return bulletGlyphs[level%len(bulletGlyphs)]
	}
	return "%" + strconv.Itoa(level+1) + "."
}

// Marshal serializes the numbering part, including the XML declaration. All
// abstract definitions precede all instances, as the schema requires.
func (n *Numbering) Marshal() []byte {
	var b strings.Builder
	b.WriteString(Declaration)
	b.WriteString(`<w:numbering xmlns:w="` + NamespaceMain + `">`)
	for i := range n.AbstractNums {
		n.AbstractNums[i].WriteXML(&b)
	}
	for _, num := range n.Nums {
		fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="%d"/></w:num>`, num.ID, num.AbstractNumID.Val)
	}
	b.WriteString(`</w:numbering>`)
	return []byte(b.String())
}

// WriteXML writes the abstract definition.
func (a *AbstractNum) WriteXML(b *strings.Builder) {
	fmt.Fprintf(b, `<w:abstractNum w:abstractNumId="%d">`, a.ID)
	b.WriteString(`<w:multiLevelType w:val="hybridMultilevel"/>`)
	for _, lvl := range a.Levels {
		fmt.Fprintf(b, `<w:lvl w:ilvl="%d">`, lvl.Index)
		writeValElement(b, "w:start", strconv.Itoa(lvl.Start.Val))
		writeValElement(b, "w:numFmt", Escape(lvl.Format.Val))
		writeValElement(b, "w:lvlText", Escape(lvl.Text.Val))
		writeValElement(b, "w:lvlJc", Escape(lvl.Justification.Val))
		fmt.Fprintf(b, `<w:pPr><w:ind w:left="%d" w:hanging="%d"/></w:pPr>`, lvl.Indentation.Left, lvl.Indentation.Hanging)
		b.WriteString(`</w:lvl>`)
	}
	b.WriteString(`</w:abstractNum>`)
}

// ParseNumbering reads a word/numbering.xml part.
func ParseNumbering(r io.Reader) (*Numbering, error) {
	var n Numbering
	if err := xml.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to parse numbering: %w", err)
	}
	return &n, nil
}

// FormatOf returns the level-0 number format of the definition referenced
// by numID, or "" when numID is unknown.
func (n *Numbering) FormatOf(numID int) string {
	for _, num := range n.Nums {
		if num.ID != numID {
			continue
		}
		for _, a := range n.AbstractNums {
			if a.ID == num.AbstractNumID.Val && len(a.Levels) > 0 {
				return a.Levels[0].Format.Val
			}
		}
	}
	return ""
}
