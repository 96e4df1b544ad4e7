// Package htmldocx converts HTML fragments into Microsoft Word (DOCX)
// documents without any external tooling.
//
// Basic Usage:
//
//	data, err := htmldocx.BuildDocx("<h1>Report</h1><p>Hello <b>world</b></p>")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := os.WriteFile("report.docx", data, 0o644); err != nil {
//	    log.Fatal(err)
//	}
//
// Conversion runs in three stages. A Normalizer reduces the HTML to a flat
// list of blocks (paragraphs, headings and list items) made of formatted
// runs. The assembler renders those blocks as word/document.xml and the
// list definitions they use as word/numbering.xml. Finally the parts are
// stored, uncompressed, in a ZIP archive together with [Content_Types].xml
// and the package relationships.
//
// Supported markup:
//
// Headings: h1, h2 and h3 map to Heading1..Heading3; h4 to h6 use Heading3.
//
// Lists: ul and ol, nested up to nine levels. All bulleted items share one
// numbering definition and all numbered items share another.
//
// Formatting: b/strong, i/em, u/ins, s/strike/del, and the equivalent
// font-weight, font-style and text-decoration inline styles.
//
// Everything else is reduced to paragraphs of text. Images become a
// "[image: alt]" placeholder; script, style and head content is dropped.
//
// Output is deterministic: the same input and configuration always produce
// byte-identical packages, which Document.Digest makes easy to check.
//
// Engines can be configured explicitly:
//
//	engine := htmldocx.NewWithOptions(
//	    htmldocx.WithMaxInputSize(1<<20),
//	    htmldocx.WithNormalizer(htmldocx.TokenizerNormalizer{}),
//	)
//	doc, err := engine.Build(html)
//
// or through HTMLDOCX_* environment variables and YAML files (see Config).
package htmldocx
