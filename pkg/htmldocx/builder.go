package htmldocx

import (
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/ooxml"
)

// attribute is a single HTML attribute with a lowercase key.
type attribute struct {
	Key string
	Val string
}

func attrValue(attrs []attribute, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var headingTags = map[string]int{
	"h1": 1, "h2": 2, "h3": 3,
	"h4": 3, "h5": 3, "h6": 3,
}

// paragraphTags delimit paragraphs without styling them.
var paragraphTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "pre": true,
	"section": true, "article": true, "header": true, "footer": true,
	"main": true, "nav": true, "aside": true, "address": true,
	"figure": true, "figcaption": true, "details": true, "summary": true,
	"table": true, "caption": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "td": true, "th": true,
	"dl": true, "dt": true, "dd": true,
	"form": true, "fieldset": true, "legend": true, "center": true,
}

// skipTags have content that never reaches the document.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "title": true,
	"template": true, "noscript": true,
}

// voidTags never have content or an end tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type format struct {
	bold, italic, underline, strike bool
}

func (f format) merge(o format) format {
	return format{
		bold:      f.bold || o.bold,
		italic:    f.italic || o.italic,
		underline: f.underline || o.underline,
		strike:    f.strike || o.strike,
	}
}

func tagFormat(name string) format {
	switch name {
	case "b", "strong":
		return format{bold: true}
	case "i", "em":
		return format{italic: true}
	case "u", "ins":
		return format{underline: true}
	case "s", "strike", "del":
		return format{strike: true}
	}
	return format{}
}

// styleFormat reads the inline CSS that rich text editors use instead of
// formatting tags.
func styleFormat(style string) format {
	var f format
	if style == "" {
		return f
	}
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important")))
		switch prop {
		case "font-weight":
			if val == "bold" || val == "bolder" {
				f.bold = true
			} else if n, err := strconv.Atoi(val); err == nil && n >= 600 {
				f.bold = true
			}
		case "font-style":
			f.italic = val == "italic" || strings.HasPrefix(val, "oblique")
		case "text-decoration", "text-decoration-line":
			f.underline = strings.Contains(val, "underline")
			f.strike = strings.Contains(val, "line-through")
		}
	}
	return f
}

type openElement struct {
	name   string
	format format
	skip   bool
	list   bool
}

// blockBuilder turns a stream of start, end and text events into blocks.
// Both normalizer strategies drive the same builder, so they share every
// rule about blocks, runs and whitespace.
type blockBuilder struct {
	blocks    []Block
	numbering NumberingAllocator

	stack []openElement
	lists []bool // ordered flag per open list
	skip  int

	bold, italic, underline, strike int

	cur      *Block
	curOwner int // stack index of the li/heading owning cur, -1 when implicit

	// Pending text of the last run in cur.
	buf    []byte
	bufFmt format

	lineStart bool
	lastSpace bool
	newlines  int
}

func newBlockBuilder() *blockBuilder {
	return &blockBuilder{curOwner: -1, lineStart: true}
}

func (b *blockBuilder) start(name string, attrs []attribute) {
	name = strings.ToLower(name)
	if voidTags[name] {
		b.void(name, attrs)
		return
	}

	el := openElement{name: name}
	if b.skip > 0 || skipTags[name] {
		el.skip = true
		b.skip++
		b.stack = append(b.stack, el)
		return
	}

	switch {
	case name == "ul" || name == "ol":
		b.closeBlock()
		b.lists = append(b.lists, name == "ol")
		el.list = true
	case name == "li":
		b.closeBlock()
		blk := Block{Kind: BlockListItem}
		if n := len(b.lists); n > 0 {
			blk.Ordered = b.lists[n-1]
			blk.Level = min(n-1, ooxml.MaxLevel)
		}
		b.openBlock(blk, len(b.stack))
	case headingTags[name] > 0:
		b.closeBlock()
		b.openBlock(Block{Kind: BlockHeading, Level: headingTags[name]}, len(b.stack))
	case paragraphTags[name]:
		b.boundary()
	}

	el.format = tagFormat(name).merge(styleFormat(attrValue(attrs, "style")))
	b.applyFormat(el.format, 1)
	b.stack = append(b.stack, el)
}

func (b *blockBuilder) end(name string) {
	name = strings.ToLower(name)
	if voidTags[name] {
		return
	}
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].name == name {
			b.popTo(i)
			return
		}
	}
	// Stray end tags are ignored.
}

func (b *blockBuilder) popTo(i int) {
	for len(b.stack) > i {
		top := len(b.stack) - 1
		el := b.stack[top]
		b.stack = b.stack[:top]
		b.closeElement(el, top)
	}
}

func (b *blockBuilder) closeElement(el openElement, index int) {
	if el.skip {
		b.skip--
		return
	}
	b.applyFormat(el.format, -1)
	switch {
	case el.list:
		b.closeBlock()
		b.lists = b.lists[:len(b.lists)-1]
	case b.cur != nil && b.curOwner == index:
		b.closeBlock()
	case isBlockTag(el.name) && b.cur != nil && b.curOwner < 0:
		b.closeBlock()
	}
}

func isBlockTag(name string) bool {
	return paragraphTags[name] || headingTags[name] > 0 || name == "li"
}

// boundary handles a paragraph-level tag. Implicit paragraphs end there;
// inside a list item or heading the tag becomes a line break instead, so
// editor markup such as <li><p>..</p></li> stays one item.
func (b *blockBuilder) boundary() {
	if b.cur == nil {
		return
	}
	if b.curOwner < 0 {
		b.closeBlock()
		return
	}
	b.lineBreak()
}

func (b *blockBuilder) void(name string, attrs []attribute) {
	if b.skip > 0 {
		return
	}
	switch name {
	case "br":
		b.lineBreak()
	case "hr":
		b.boundary()
	case "img":
		alt := strings.TrimSpace(attrValue(attrs, "alt"))
		if alt == "" {
			b.text("[image]")
		} else {
			b.text("[image: " + alt + "]")
		}
	}
}

func (b *blockBuilder) applyFormat(f format, delta int) {
	if f.bold {
		b.bold += delta
	}
	if f.italic {
		b.italic += delta
	}
	if f.underline {
		b.underline += delta
	}
	if f.strike {
		b.strike += delta
	}
}

func (b *blockBuilder) currentFormat() format {
	return format{
		bold:      b.bold > 0,
		italic:    b.italic > 0,
		underline: b.underline > 0,
		strike:    b.strike > 0,
	}
}

// text adds character data. Runs of spaces and tabs collapse to one space,
// a single newline becomes a line break and a blank line ends an implicit
// paragraph. Newlines are resolved lazily so that trailing whitespace of a
// block never produces a break.
func (b *blockBuilder) text(s string) {
	if b.skip > 0 || s == "" {
		return
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	for _, r := range s {
		switch r {
		case '\n':
			if b.cur != nil && !b.lineStart {
				b.newlines++
			}
		case ' ', '\t', '\f':
			if b.cur == nil || b.lineStart || b.lastSpace || b.newlines > 0 {
				continue
			}
			b.emit(' ')
			b.lastSpace = true
		default:
			if b.newlines > 0 {
				n := b.newlines
				b.newlines = 0
				if n >= 2 && b.cur.Kind == BlockParagraph && b.curOwner < 0 {
					b.closeBlock()
				} else {
					b.lineBreak()
				}
			}
			b.emit(r)
			b.lastSpace = false
			b.lineStart = false
		}
	}
}

func (b *blockBuilder) emit(r rune) {
	if b.cur == nil {
		b.openBlock(Block{Kind: BlockParagraph}, -1)
	}
	f := b.currentFormat()
	if len(b.buf) > 0 && f != b.bufFmt {
		b.flush()
	}
	b.bufFmt = f
	b.buf = append(b.buf, string(r)...)
}

func (b *blockBuilder) flush() {
	if len(b.buf) == 0 || b.cur == nil {
		b.buf = b.buf[:0]
		return
	}
	b.cur.Runs = append(b.cur.Runs, Run{
		Text:      string(b.buf),
		Bold:      b.bufFmt.bold,
		Italic:    b.bufFmt.italic,
		Underline: b.bufFmt.underline,
		Strike:    b.bufFmt.strike,
	})
	b.buf = b.buf[:0]
}

func (b *blockBuilder) trimTrailingSpace() {
	if n := len(b.buf); n > 0 && b.buf[n-1] == ' ' {
		b.buf = b.buf[:n-1]
	}
}

func (b *blockBuilder) hasContent() bool {
	return b.cur != nil && (len(b.cur.Runs) > 0 || len(b.buf) > 0)
}

// lineBreak appends a break marker. Breaks at the start of a block are
// dropped.
func (b *blockBuilder) lineBreak() {
	b.newlines = 0
	if !b.hasContent() {
		return
	}
	b.trimTrailingSpace()
	b.flush()
	b.cur.Runs = append(b.cur.Runs, Run{Break: true})
	b.lineStart = true
	b.lastSpace = false
}

func (b *blockBuilder) openBlock(blk Block, owner int) {
	b.cur = &blk
	b.curOwner = owner
	b.buf = b.buf[:0]
	b.lineStart = true
	b.lastSpace = false
	b.newlines = 0
}

// closeBlock finishes the open block. Trailing breaks are removed, U+00A0
// becomes a plain space, and blocks without visible text are dropped.
func (b *blockBuilder) closeBlock() {
	if b.cur == nil {
		return
	}
	b.trimTrailingSpace()
	b.flush()
	blk := *b.cur
	b.cur = nil
	b.curOwner = -1
	b.lineStart = true
	b.lastSpace = false
	b.newlines = 0

	for n := len(blk.Runs); n > 0 && blk.Runs[n-1].Break; n-- {
		blk.Runs = blk.Runs[:n-1]
	}
	visible := false
	for i := range blk.Runs {
		if blk.Runs[i].Break {
			continue
		}
		blk.Runs[i].Text = strings.ReplaceAll(blk.Runs[i].Text, "\u00a0", " ")
		if strings.TrimSpace(blk.Runs[i].Text) != "" {
			visible = true
		}
	}
	if !visible {
		return
	}
	if blk.Kind == BlockListItem {
		blk.NumID = b.numbering.ID(blk.Ordered)
	}
	b.blocks = append(b.blocks, blk)
}

// finish closes everything still open and returns the result.
func (b *blockBuilder) finish() *Normalized {
	b.popTo(0)
	b.closeBlock()
	return &Normalized{
		Blocks:    b.blocks,
		Numbering: b.numbering.Definitions(),
	}
}
