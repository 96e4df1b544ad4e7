package htmldocx

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrMalformedInput    = errors.New("input is not valid UTF-8")
	ErrInputTooLarge     = errors.New("input exceeds the configured size limit")
	ErrUnknownNormalizer = errors.New("unknown normalizer")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrNotDocx           = errors.New("not a DOCX package")
)

// MalformedInputError reports the byte offset of the first invalid UTF-8
// sequence in the input.
type MalformedInputError struct {
	Offset int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at byte %d: invalid UTF-8", e.Offset)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// InputTooLargeError is returned when an input is larger than
// Config.MaxInputSize.
type InputTooLargeError struct {
	Size  int
	Limit int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("input of %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

func (e *InputTooLargeError) Unwrap() error {
	return ErrInputTooLarge
}

// DocumentError represents an error while reading a generated package.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// IsMalformedInput reports whether err was caused by invalid UTF-8 input.
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsInputTooLarge reports whether err was caused by the size limit.
func IsInputTooLarge(err error) bool {
	return errors.Is(err, ErrInputTooLarge)
}
