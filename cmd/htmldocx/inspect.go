package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx"
	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/ooxml"
)

func runInspect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	partsOnly := fs.Bool("parts", false, "list parts only")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: htmldocx inspect [flags] <file.docx>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return ExitUsage
	}

	if err := inspect(fs.Arg(0), *partsOnly, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

func inspect(path string, partsOnly bool, w io.Writer) error {
	pr, err := htmldocx.OpenPackage(path)
	if err != nil {
		return err
	}

	for _, part := range pr.Parts() {
		fmt.Fprintf(w, "%-32s %8d  crc=%08x\n", part.Name, part.Size, part.CRC32)
	}
	if err := pr.Verify(); err != nil {
		return err
	}
	if partsOnly {
		return nil
	}

	doc, err := pr.Document()
	if err != nil {
		return err
	}
	numbering, err := pr.Numbering()
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	for i := range doc.Body.Paragraphs {
		p := &doc.Body.Paragraphs[i]
		fmt.Fprintf(w, "%-24s %s\n", describeParagraph(p, numbering), strings.ReplaceAll(p.Text(), "\n", `\n`))
	}
	return nil
}

func describeParagraph(p *ooxml.Paragraph, numbering *ooxml.Numbering) string {
	if style := p.StyleName(); style != "" {
		return "[" + style + "]"
	}
	if p.Properties != nil && p.Properties.Numbering != nil {
		num := p.Properties.Numbering
		return fmt.Sprintf("[%s %d/%d]", numbering.FormatOf(num.NumID.Val), num.NumID.Val, num.Level.Val)
	}
	return "[paragraph]"
}
