package htmldocx

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/benjaminschreck/go-htmldocx/internal/yamlutil"
)

// Config contains all configuration options for the engine
type Config struct {
	// MaxInputSize is the largest accepted input in bytes. 0 means unlimited.
	MaxInputSize int `yaml:"max_input_size"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// Normalizer selects the HTML normalizer: dom, tokenizer or auto
	Normalizer string `yaml:"normalizer"`
	// LinkNumbering adds word/_rels/document.xml.rels so that Word binds the
	// numbering part to the main document.
	LinkNumbering bool `yaml:"link_numbering"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxInputSize:  0,
		LogLevel:      "info",
		Normalizer:    NormalizerDOM,
		LinkNumbering: false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
// Unparseable values are ignored.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// HTMLDOCX_MAX_INPUT_SIZE
	if val := os.Getenv("HTMLDOCX_MAX_INPUT_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.MaxInputSize = size
		}
	}

	// HTMLDOCX_LOG_LEVEL
	if val := os.Getenv("HTMLDOCX_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// HTMLDOCX_NORMALIZER
	if val := os.Getenv("HTMLDOCX_NORMALIZER"); val != "" {
		config.Normalizer = strings.ToLower(val)
	}

	// HTMLDOCX_LINK_NUMBERING
	if val := os.Getenv("HTMLDOCX_LINK_NUMBERING"); val != "" {
		config.LinkNumbering = parseBool(val)
	}

	return config
}

// ConfigFromYAML reads a configuration document. Keys that are absent keep
// their default values and an empty document is the default configuration;
// unknown keys are an error.
func ConfigFromYAML(data []byte) (*Config, error) {
	config := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}
	if err := yamlutil.DecodeStrict(data, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// YAML renders the configuration in the format read by ConfigFromYAML.
func (c *Config) YAML() ([]byte, error) {
	return yamlutil.Encode(c)
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("config read", path, err)
	}
	config, err := ConfigFromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.Normalizer == "" {
		config.Normalizer = defaults.Normalizer
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxInputSize < 0 {
		return &ConfigError{Field: "max_input_size", Message: "cannot be negative"}
	}

	if _, ok := logLevels[c.LogLevel]; !ok {
		return &ConfigError{Field: "log_level", Message: "unknown level " + strconv.Quote(c.LogLevel)}
	}

	if _, err := NewNormalizer(c.Normalizer); err != nil {
		return &ConfigError{Field: "normalizer", Message: "unknown normalizer " + strconv.Quote(c.Normalizer)}
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Outside the lock: the logger reads the config back.
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
