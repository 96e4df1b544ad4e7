package htmldocx

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // Tables, strikethrough, autolinks, task lists
	),
	goldmark.WithRendererOptions(
		html.WithXHTML(),
		html.WithUnsafe(), // Inline HTML such as <u> reaches the normalizer
		renderer.WithNodeRenderers(util.Prioritized(textRenderer{}, 100)),
	),
)

// textRenderer replaces goldmark's text renderer. A soft line break is
// written as a space because the normalizer turns a newline inside text
// into a line break; hard breaks stay <br />.
type textRenderer struct{}

func (textRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindText, renderText)
}

func renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Text)
	value := n.Segment.Value(source)
	if n.IsRaw() {
		html.DefaultWriter.RawWrite(w, value)
	} else {
		html.DefaultWriter.Write(w, value)
	}
	switch {
	case n.HardLineBreak():
		_, _ = w.WriteString("<br />\n")
	case n.SoftLineBreak():
		_ = w.WriteByte(' ')
	}
	return ast.WalkContinue, nil
}

// FromMarkdown converts Markdown (GitHub flavored) into an HTML fragment
// suitable for Build.
func FromMarkdown(source string) (string, error) {
	if err := validateUTF8(source); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

// BuildMarkdown converts Markdown using the global configuration.
func BuildMarkdown(source string) (*Document, error) {
	return New().BuildMarkdown(source)
}
