package htmldocx

import (
	"strconv"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/ooxml"
)

// AssembleDocument renders word/document.xml for the normalized blocks.
// A document without blocks still gets one empty paragraph.
func AssembleDocument(n *Normalized) []byte {
	doc := &ooxml.Document{Body: ooxml.Body{Section: ooxml.A4Section()}}
	if n != nil {
		doc.Body.Paragraphs = make([]ooxml.Paragraph, 0, len(n.Blocks))
		for _, blk := range n.Blocks {
			doc.Body.Paragraphs = append(doc.Body.Paragraphs, paragraphFor(blk))
		}
	}
	return doc.Marshal()
}

func paragraphFor(blk Block) ooxml.Paragraph {
	var p ooxml.Paragraph
	switch blk.Kind {
	case BlockHeading:
		level := min(max(blk.Level, 1), 3)
		p.Properties = &ooxml.ParagraphProperties{
			Style: &ooxml.Style{Val: "Heading" + strconv.Itoa(level)},
		}
	case BlockListItem:
		p.Properties = &ooxml.ParagraphProperties{
			Numbering: &ooxml.NumberingProperties{
				Level: ooxml.IntValue{Val: min(max(blk.Level, 0), ooxml.MaxLevel)},
				NumID: ooxml.IntValue{Val: blk.NumID},
			},
		}
	}

	p.Runs = make([]ooxml.Run, 0, len(blk.Runs))
	for _, r := range blk.Runs {
		if r.Break {
			p.Runs = append(p.Runs, ooxml.NewBreakRun())
			continue
		}
		p.Runs = append(p.Runs, ooxml.NewTextRun(runProperties(r), r.Text))
	}
	return p
}

func runProperties(r Run) *ooxml.RunProperties {
	if !r.Bold && !r.Italic && !r.Underline && !r.Strike {
		return nil
	}
	props := &ooxml.RunProperties{}
	if r.Bold {
		props.Bold = &ooxml.Empty{}
	}
	if r.Italic {
		props.Italic = &ooxml.Empty{}
	}
	if r.Underline {
		props.Underline = &ooxml.Underline{Val: "single"}
	}
	if r.Strike {
		props.Strike = &ooxml.Empty{}
	}
	return props
}

// AssembleNumbering renders word/numbering.xml with one abstract definition
// and one instance per numbering definition. The abstract id equals the
// numId.
func AssembleNumbering(n *Normalized) []byte {
	numbering := &ooxml.Numbering{}
	if n != nil {
		for _, def := range n.Numbering {
			numbering.AbstractNums = append(numbering.AbstractNums, ooxml.NewAbstractNum(def.NumID, string(def.Format)))
			numbering.Nums = append(numbering.Nums, ooxml.Num{
				ID:            def.NumID,
				AbstractNumID: ooxml.IntValue{Val: def.NumID},
			})
		}
	}
	return numbering.Marshal()
}
