package htmldocx

import (
	"html"
	"strings"
)

// TokenizerNormalizer scans tags and text in a single pass without building
// a tree. It accepts anything: stray end tags are ignored, unclosed elements
// are closed at the end of input and a '<' that does not start a tag is
// literal text.
type TokenizerNormalizer struct{}

// Normalize implements Normalizer.
func (TokenizerNormalizer) Normalize(input string) (*Normalized, error) {
	if err := validateUTF8(input); err != nil {
		return nil, err
	}
	b := newBlockBuilder()
	tokenize(input, b)
	return b.finish(), nil
}

// rawTextTags have content that is never parsed as markup.
var rawTextTags = map[string]bool{
	"script": true, "style": true, "title": true, "textarea": true,
}

type tagToken struct {
	name        string
	attrs       []attribute
	end         bool
	selfClosing bool
}

func tokenize(s string, b *blockBuilder) {
	textStart := 0
	flushText := func(end int) {
		if end > textStart {
			b.text(html.UnescapeString(s[textStart:end]))
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '<' {
			i++
			continue
		}

		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			flushText(i)
			if end := strings.Index(rest[4:], "-->"); end < 0 {
				i = len(s)
			} else {
				i += 4 + end + 3
			}
			textStart = i
			continue
		case strings.HasPrefix(rest, "<!") || strings.HasPrefix(rest, "<?"):
			flushText(i)
			if end := strings.IndexByte(rest, '>'); end < 0 {
				i = len(s)
			} else {
				i += end + 1
			}
			textStart = i
			continue
		}

		tok, next, ok := parseTag(s, i)
		if !ok {
			i++
			continue
		}
		flushText(i)
		i = next
		textStart = i

		if tok.end {
			b.end(tok.name)
			continue
		}
		// The self-closing flag has no effect on non-void elements: <b/>
		// opens b.
		b.start(tok.name, tok.attrs)
		if rawTextTags[tok.name] {
			if end := indexEndTag(s[i:], tok.name); end < 0 {
				i = len(s)
			} else {
				i += end
			}
			if !skipTags[tok.name] {
				b.text(html.UnescapeString(s[textStart:i]))
			}
			textStart = i
		}
	}
	flushText(len(s))
}

// parseTag parses the tag starting at s[i] == '<'. It reports false when the
// '<' does not start a tag. An unterminated tag runs to the end of input.
func parseTag(s string, i int) (tagToken, int, bool) {
	var tok tagToken
	j := i + 1
	if j < len(s) && s[j] == '/' {
		tok.end = true
		j++
	}
	if j >= len(s) || !isASCIILetter(s[j]) {
		return tok, i, false
	}

	start := j
	for j < len(s) && !isTagSpace(s[j]) && s[j] != '/' && s[j] != '>' {
		j++
	}
	tok.name = strings.ToLower(s[start:j])

	for {
		for j < len(s) && isTagSpace(s[j]) {
			j++
		}
		if j >= len(s) {
			return tok, len(s), true
		}
		switch s[j] {
		case '>':
			return tok, j + 1, true
		case '/':
			j++
			if j < len(s) && s[j] == '>' {
				tok.selfClosing = true
				return tok, j + 1, true
			}
			continue
		}

		keyStart := j
		for j < len(s) && !isTagSpace(s[j]) && s[j] != '/' && s[j] != '>' && s[j] != '=' {
			j++
		}
		key := strings.ToLower(s[keyStart:j])
		for j < len(s) && isTagSpace(s[j]) {
			j++
		}

		var val string
		if j < len(s) && s[j] == '=' {
			j++
			for j < len(s) && isTagSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '"' || s[j] == '\'') {
				quote := s[j]
				j++
				end := strings.IndexByte(s[j:], quote)
				if end < 0 {
					val, j = s[j:], len(s)
				} else {
					val, j = s[j:j+end], j+end+1
				}
			} else {
				valStart := j
				for j < len(s) && !isTagSpace(s[j]) && s[j] != '>' {
					j++
				}
				val = s[valStart:j]
			}
		}
		if !tok.end && key != "" {
			tok.attrs = append(tok.attrs, attribute{Key: key, Val: html.UnescapeString(val)})
		}
	}
}

// indexEndTag finds "</name" case-insensitively.
func indexEndTag(s, name string) int {
	for i := 0; i+2+len(name) <= len(s); i++ {
		if s[i] != '<' || s[i+1] != '/' {
			continue
		}
		match := true
		for k := 0; k < len(name); k++ {
			if lowerASCII(s[i+2+k]) != name[k] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
