package htmldocx

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Engine converts HTML into DOCX packages.
// Use New() to create a new engine instance. A zero Engine uses the global
// configuration and logger.
type Engine struct {
	config     *Config
	normalizer Normalizer
	logger     *Logger
}

// New creates a new engine with the global configuration.
func New() *Engine {
	return &Engine{config: GetGlobalConfig()}
}

// NewWithConfig creates a new engine with a custom configuration. Unset
// fields take their default values.
func NewWithConfig(config *Config) *Engine {
	return &Engine{config: NewConfigWithDefaults(config)}
}

// Build normalizes html and packages it as a DOCX document. It fails only
// for input that is not valid UTF-8, input larger than Config.MaxInputSize,
// or an unknown normalizer name.
func (e *Engine) Build(html string) (*Document, error) {
	n, err := e.Normalize(html)
	if err != nil {
		return nil, err
	}

	data, err := buildPackage(n, packageOptions{linkNumbering: e.cfg().LinkNumbering})
	if err != nil {
		return nil, err
	}

	e.log().WithFields(Fields{
		"input_bytes":   len(html),
		"blocks":        len(n.Blocks),
		"numbering":     len(n.Numbering),
		"archive_bytes": len(data),
	}).Debug("built docx package")

	return &Document{Data: data, ContentType: MIMEType}, nil
}

// Normalize runs only the normalization stage of Build.
func (e *Engine) Normalize(html string) (*Normalized, error) {
	log := e.log().WithField("input_bytes", len(html))

	if limit := e.cfg().MaxInputSize; limit > 0 && len(html) > limit {
		err := &InputTooLargeError{Size: len(html), Limit: limit}
		log.Warn("input rejected: %v", err)
		return nil, err
	}

	normalizer, err := e.resolveNormalizer()
	if err != nil {
		return nil, err
	}

	n, err := normalizer.Normalize(html)
	if err != nil {
		log.Warn("input rejected: %v", err)
		return nil, err
	}
	return n, nil
}

// BuildMarkdown converts Markdown to HTML and builds it.
func (e *Engine) BuildMarkdown(markdown string) (*Document, error) {
	html, err := FromMarkdown(markdown)
	if err != nil {
		return nil, err
	}
	return e.Build(html)
}

func (e *Engine) resolveNormalizer() (Normalizer, error) {
	if e.normalizer != nil {
		return e.normalizer, nil
	}
	return NewNormalizer(e.cfg().Normalizer)
}

func (e *Engine) cfg() *Config {
	if e.config != nil {
		return e.config
	}
	return GetGlobalConfig()
}

func (e *Engine) log() *Logger {
	if e.logger != nil {
		return e.logger
	}
	return GetLogger()
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg()
}

// SetConfig updates the engine's configuration.
func (e *Engine) SetConfig(config *Config) {
	e.config = NewConfigWithDefaults(config)
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
	}
}

// WithMaxInputSize returns an option that sets the input size limit (0 disables it).
func WithMaxInputSize(limit int) Option {
	return func(e *Engine) {
		e.config.MaxInputSize = limit
	}
}

// WithNormalizer returns an option that replaces the configured normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// WithLinkNumbering returns an option that adds the document relationship part.
func WithLinkNumbering(enabled bool) Option {
	return func(e *Engine) {
		e.config.LinkNumbering = enabled
	}
}

// WithLogger returns an option that sets the logger used by the engine.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Document is a generated DOCX package.
type Document struct {
	Data        []byte
	ContentType string
}

// Bytes returns the package bytes.
func (d *Document) Bytes() []byte {
	return d.Data
}

// Reader returns a reader over the package bytes.
func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.Data)
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Data)
	return int64(n), err
}

// Digest returns the hex BLAKE3-256 digest of the package. Identical input
// and configuration always give the same digest.
func (d *Document) Digest() string {
	sum := blake3.Sum256(d.Data)
	return hex.EncodeToString(sum[:])
}

// Build converts html using the global configuration.
func Build(html string) (*Document, error) {
	return New().Build(html)
}

// BuildDocx converts html using the global configuration and returns the
// package bytes.
func BuildDocx(html string) ([]byte, error) {
	doc, err := Build(html)
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}
