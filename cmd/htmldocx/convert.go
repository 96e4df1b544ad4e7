package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Sentinel errors for conversion.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

func runConvert(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, inputs, err := parseConvertFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}

	config, err := flags.resolveConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}
	if flags.printConfig {
		data, err := config.YAML()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitFailure
		}
		_, _ = stdout.Write(data)
		return ExitSuccess
	}

	logger := htmldocx.NewLogger(stderr, htmldocx.ParseLogLevel(config.LogLevel))
	engine := htmldocx.NewWithOptions(htmldocx.WithConfig(config), htmldocx.WithLogger(logger))

	// Error ignored: maxprocs.Set only fails for an invalid GOMAXPROCS value,
	// in which case the runtime default applies.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(format, args...)
	}))
	defer undo()

	if len(inputs) == 0 {
		err := fmt.Errorf("%w: htmldocx convert [flags] <input>...", ErrNoInput)
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}

	if len(inputs) == 1 && inputs[0] == "-" {
		return convertStdin(engine, flags, stdin, stdout, stderr)
	}

	jobs, err := planJobs(inputs, flags.output, flags.markdown)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	results := convertBatch(ctx, engine, jobs, resolvePoolSize(flags.workers), stdout)
	return report(results, flags, stdout, stderr)
}

// convertStdin converts standard input to a single package.
func convertStdin(engine Converter, flags *convertFlags, stdin io.Reader, stdout, stderr io.Writer) int {
	content, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "%v: %v\n", ErrReadInput, err)
		return ExitFailure
	}

	job := conversionJob{InputPath: "-", OutputPath: flags.output, Markdown: flags.markdown}
	if job.OutputPath == "" {
		job.OutputPath = "-"
	}
	result := convertContent(engine, job, content, stdout)
	return report([]ConversionResult{result}, flags, stdout, stderr)
}

// planJobs resolves the output path of every input. Without --output each
// package is written next to its input; with several inputs --output names
// a directory.
func planJobs(inputs []string, output string, forceMarkdown bool) ([]conversionJob, error) {
	var outDir, single string
	switch {
	case output == "":
	case output == "-":
		if len(inputs) != 1 {
			return nil, fmt.Errorf("%w: --output - requires exactly one input", ErrUsage)
		}
		single = "-"
	case len(inputs) > 1 || strings.HasSuffix(output, "/") || isDir(output):
		outDir = output
	default:
		single = output
	}

	jobs := make([]conversionJob, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		if in == "-" {
			return nil, fmt.Errorf("%w: stdin cannot be combined with other inputs", ErrUsage)
		}

		out := single
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".docx"
			if outDir != "" {
				out = filepath.Join(outDir, base)
			} else {
				out = filepath.Join(filepath.Dir(in), base)
			}
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrUsage, prev, in, out)
		}
		seen[out] = in

		jobs = append(jobs, conversionJob{
			InputPath:  in,
			OutputPath: out,
			Markdown:   forceMarkdown || isMarkdownPath(in),
		})
	}
	return jobs, nil
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// report prints one line per result and returns the exit code.
func report(results []ConversionResult, flags *convertFlags, stdout, stderr io.Writer) int {
	digestOut := stdout
	code := ExitSuccess
	for _, r := range results {
		if r.OutputPath == "-" {
			digestOut = stderr
		}
		if r.Err != nil {
			fmt.Fprintf(stderr, "error: %s: %v\n", r.InputPath, r.Err)
			code = max(code, exitCodeFor(r.Err))
			continue
		}
		if !flags.common.quiet {
			fmt.Fprintf(stderr, "%s -> %s (%d bytes, %s)\n", r.InputPath, r.OutputPath, r.Size, r.Duration.Round(time.Microsecond))
		}
		if flags.digest {
			fmt.Fprintf(digestOut, "%s  %s\n", r.Digest, r.OutputPath)
		}
	}
	return code
}
