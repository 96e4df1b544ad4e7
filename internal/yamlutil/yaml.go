// Package yamlutil keeps the YAML library behind a small surface so the
// rest of the module never imports it directly.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize caps the size of a YAML document accepted by DecodeStrict.
var MaxDocumentSize = 64 << 10

var (
	ErrEmptyDocument = errors.New("yamlutil: empty document")
	ErrNilTarget     = errors.New("yamlutil: nil decode target")
	ErrTooLarge      = errors.New("yamlutil: document too large")
)

func check(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}
	if len(data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxDocumentSize)
	}
	if v == nil {
		return ErrNilTarget
	}
	return nil
}

// DecodeStrict parses data into v and rejects keys v does not declare.
func DecodeStrict(data []byte, v any) error {
	if err := check(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Encode renders v as YAML.
func Encode(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
