package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx"
)

// ErrUsage marks errors caused by the command line itself.
var ErrUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common        commonFlags
	output        string
	markdown      bool
	normalizer    string
	maxInputSize  int
	linkNumbering bool
	workers       int
	digest        bool
	printConfig   bool

	fs *flag.FlagSet
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
}

// parseConvertFlags parses convert flags and returns the positional inputs.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: htmldocx convert [flags] <input>...")
		fs.PrintDefaults()
	}

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (\"-\" = stdout)")
	fs.BoolVarP(&f.markdown, "markdown", "m", false, "treat every input as Markdown")
	fs.StringVar(&f.normalizer, "normalizer", "", "HTML normalizer: dom, tokenizer")
	fs.IntVar(&f.maxInputSize, "max-input-size", 0, "reject inputs larger than this many bytes (0 = unlimited)")
	fs.BoolVar(&f.linkNumbering, "link-numbering", false, "add word/_rels/document.xml.rels")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = GOMAXPROCS)")
	fs.BoolVar(&f.digest, "digest", false, "print the BLAKE3 digest of each package")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the resolved configuration as YAML and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if f.workers < 0 {
		return nil, nil, fmt.Errorf("%w: --workers cannot be negative", ErrUsage)
	}
	f.fs = fs
	return f, fs.Args(), nil
}

// resolveConfig layers environment, config file and explicit flags.
func (f *convertFlags) resolveConfig() (*htmldocx.Config, error) {
	config := htmldocx.ConfigFromEnvironment()
	if f.common.config != "" {
		loaded, err := htmldocx.LoadConfigFile(f.common.config)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", htmldocx.ErrInvalidConfig, err)
		}
		config = loaded
	}

	if f.fs.Changed("normalizer") {
		config.Normalizer = f.normalizer
	}
	if f.fs.Changed("max-input-size") {
		config.MaxInputSize = f.maxInputSize
	}
	if f.fs.Changed("link-numbering") {
		config.LinkNumbering = f.linkNumbering
	}
	switch {
	case f.common.verbose:
		config.LogLevel = "debug"
	case f.common.quiet:
		config.LogLevel = "error"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
