package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx"
)

// Converter is the conversion service used by the CLI.
type Converter interface {
	Build(html string) (*htmldocx.Document, error)
	BuildMarkdown(markdown string) (*htmldocx.Document, error)
}

// Compile-time interface implementation check.
var _ Converter = (*htmldocx.Engine)(nil)

type conversionJob struct {
	InputPath  string
	OutputPath string
	Markdown   bool
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Size       int
	Digest     string
	Err        error
	Duration   time.Duration
}

// resolvePoolSize returns the number of workers to run.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return max(runtime.GOMAXPROCS(0), 1)
}

// convertBatch converts files concurrently. Results keep the order of jobs.
func convertBatch(ctx context.Context, conv Converter, jobs []conversionJob, workers int, stdout io.Writer) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(workers, len(jobs))
	results := make([]ConversionResult, len(jobs))
	queue := make(chan int, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{
						InputPath:  jobs[idx].InputPath,
						OutputPath: jobs[idx].OutputPath,
						Err:        err,
					}
					continue
				}
				results[idx] = convertFile(conv, jobs[idx], stdout)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// convertFile reads one input and converts it.
func convertFile(conv Converter, job conversionJob, stdout io.Writer) ConversionResult {
	content, err := os.ReadFile(job.InputPath)
	if err != nil {
		return ConversionResult{
			InputPath:  job.InputPath,
			OutputPath: job.OutputPath,
			Err:        fmt.Errorf("%w: %v", ErrReadInput, err),
		}
	}
	return convertContent(conv, job, content, stdout)
}

// convertContent builds a package from content and writes it.
func convertContent(conv Converter, job conversionJob, content []byte, stdout io.Writer) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: job.InputPath, OutputPath: job.OutputPath}

	var doc *htmldocx.Document
	var err error
	if job.Markdown {
		doc, err = conv.BuildMarkdown(string(content))
	} else {
		doc, err = conv.Build(string(content))
	}
	if err != nil {
		result.Err = fmt.Errorf("conversion failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	if err := writeOutput(job.OutputPath, doc, stdout); err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Size = len(doc.Data)
	result.Digest = doc.Digest()
	result.Duration = time.Since(start)
	return result
}

func writeOutput(path string, doc *htmldocx.Document, stdout io.Writer) error {
	if path == "-" {
		if _, err := doc.WriteTo(stdout); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, doc.Data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
