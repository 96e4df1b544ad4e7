package htmldocx

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOMNormalizer parses the input with an HTML5 tree builder and walks the
// resulting tree. Misnested markup is repaired the way browsers repair it.
type DOMNormalizer struct{}

// Normalize implements Normalizer.
func (DOMNormalizer) Normalize(input string) (*Normalized, error) {
	if err := validateUTF8(input); err != nil {
		return nil, err
	}
	root, err := parseHTML(input)
	if err != nil {
		return nil, err
	}

	b := newBlockBuilder()
	walkNode(b, root)
	return b.finish(), nil
}

// parseHTML parses a full document when the input starts with a doctype or
// an html element, and a body fragment otherwise.
func parseHTML(content string) (*html.Node, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return html.Parse(strings.NewReader(content))
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

func walkNode(b *blockBuilder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data)
		return
	case html.ElementNode:
		attrs := make([]attribute, 0, len(n.Attr))
		for _, a := range n.Attr {
			if a.Namespace == "" {
				attrs = append(attrs, attribute{Key: a.Key, Val: a.Val})
			}
		}
		b.start(n.Data, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkNode(b, c)
		}
		if !voidTags[n.Data] {
			b.end(n.Data)
		}
		return
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkNode(b, c)
		}
	}
	// Comments and doctypes carry no content.
}
