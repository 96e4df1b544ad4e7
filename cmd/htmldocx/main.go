// Command htmldocx converts HTML and Markdown files to DOCX.
package main

import (
	"fmt"
	"io"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		return runConvert(args[1:], stdin, stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintf(stdout, "htmldocx %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		printUsage(stdout)
		return ExitSuccess
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: htmldocx <command> [flags] [arguments]

Commands:
  convert <input>...   Convert HTML or Markdown files ("-" for stdin) to DOCX
  inspect <file.docx>  List the parts and paragraphs of a DOCX package
  version              Show version information

Run "htmldocx convert --help" for conversion flags.
`)
}
