package htmldocx

import (
	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/archive"
	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/ooxml"
)

// Part names inside a generated package.
const (
	PartContentTypes = "[Content_Types].xml"
	PartRootRels     = "_rels/.rels"
	PartDocument     = "word/document.xml"
	PartNumbering    = "word/numbering.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
)

// MIMEType is the media type of a DOCX package.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// packageOptions controls the optional parts of a package.
type packageOptions struct {
	linkNumbering bool
}

// assemblePackage returns the parts of a package in archive order.
func assemblePackage(n *Normalized, opts packageOptions) ([]archive.Entry, error) {
	contentTypes, err := ooxml.NewContentTypes(
		ooxml.ContentTypeOverride{PartName: "/" + PartDocument, ContentType: ooxml.ContentTypeDocument},
		ooxml.ContentTypeOverride{PartName: "/" + PartNumbering, ContentType: ooxml.ContentTypeNumbering},
	).Marshal()
	if err != nil {
		return nil, err
	}

	rootRels, err := ooxml.NewRelationships(ooxml.Relationship{
		ID:     "rId1",
		Type:   ooxml.RelTypeOfficeDocument,
		Target: PartDocument,
	}).Marshal()
	if err != nil {
		return nil, err
	}

	entries := []archive.Entry{
		{Name: PartContentTypes, Data: contentTypes},
		{Name: PartRootRels, Data: rootRels},
		{Name: PartDocument, Data: AssembleDocument(n)},
		{Name: PartNumbering, Data: AssembleNumbering(n)},
	}

	if opts.linkNumbering {
		docRels, err := ooxml.NewRelationships(ooxml.Relationship{
			ID:     "rId1",
			Type:   ooxml.RelTypeNumbering,
			Target: "numbering.xml",
		}).Marshal()
		if err != nil {
			return nil, err
		}
		entries = append(entries, archive.Entry{Name: PartDocumentRels, Data: docRels})
	}

	return entries, nil
}

// buildPackage serializes the normalized document into a stored ZIP.
func buildPackage(n *Normalized, opts packageOptions) ([]byte, error) {
	entries, err := assemblePackage(n, opts)
	if err != nil {
		return nil, err
	}
	return archive.Build(entries), nil
}
