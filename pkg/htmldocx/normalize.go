package htmldocx

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Normalizer names accepted by NewNormalizer and Config.Normalizer.
const (
	NormalizerAuto      = "auto"
	NormalizerDOM       = "dom"
	NormalizerTokenizer = "tokenizer"
)

// Normalizer turns an HTML fragment into blocks and the numbering
// definitions they reference. Implementations never fail for valid UTF-8.
type Normalizer interface {
	Normalize(html string) (*Normalized, error)
}

// NewNormalizer returns the normalizer with the given name. The empty name
// and "auto" select the DOM-backed normalizer.
func NewNormalizer(name string) (Normalizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NormalizerAuto, NormalizerDOM:
		return DOMNormalizer{}, nil
	case NormalizerTokenizer:
		return TokenizerNormalizer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNormalizer, name)
	}
}

// validateUTF8 returns a *MalformedInputError for the first invalid byte.
func validateUTF8(s string) error {
	if utf8.ValidString(s) {
		return nil
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return &MalformedInputError{Offset: i}
		}
		i += size
	}
	return nil
}
