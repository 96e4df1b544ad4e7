// Package ooxml provides the WordprocessingML structures written into
// generated DOCX packages.
//
// The package is organized by part:
//
//   - document.go: Document, Body, Paragraph, Run and their properties
//   - numbering.go: Numbering, AbstractNum, Level and Num
//   - package.go: relationships and [Content_Types].xml
//   - escape.go: text escaping shared by every part
//
// Document and numbering parts are serialized by hand rather than through
// encoding/xml so that the output is byte-for-byte fixed: element order,
// the w: prefix, self-closing empty elements and the entity used for each
// escaped character never vary. The same structures carry encoding/xml tags
// so a generated part can be parsed back for inspection:
//
//	doc, err := ooxml.ParseDocument(bytes.NewReader(documentXML))
//	if err != nil {
//	    return err
//	}
//	for _, p := range doc.Body.Paragraphs {
//	    fmt.Println(p.StyleName(), p.Text())
//	}
//
// Relationship and content-type parts contain no user text and are
// marshaled with encoding/xml.
package ooxml
