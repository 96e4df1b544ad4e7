package ooxml

import (
	"encoding/xml"
	"fmt"
)

// Package-level namespaces, relationship types and content types.
const (
	NamespaceContentTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	NamespacePkgRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"

	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML           = "application/xml"
	ContentTypeDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeNumbering     = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
)

// Relationship represents a relationship in a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents a .rels part.
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ContentTypes represents [Content_Types].xml.
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type.
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a single part name to a content type.
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// NewRelationships returns an empty relationship set with its namespace set.
func NewRelationships(rels ...Relationship) *Relationships {
	return &Relationships{Namespace: NamespacePkgRelationships, Relationship: rels}
}

// NewContentTypes returns the content types for a package holding a main
// document and, optionally, extra overrides.
func NewContentTypes(overrides ...ContentTypeOverride) *ContentTypes {
	return &ContentTypes{
		Namespace: NamespaceContentTypes,
		Defaults: []ContentTypeDefault{
			{Extension: "rels", ContentType: ContentTypeRelationships},
			{Extension: "xml", ContentType: ContentTypeXML},
		},
		Overrides: overrides,
	}
}

// Marshal serializes the relationships with the XML declaration.
func (r *Relationships) Marshal() ([]byte, error) {
	return marshalPart(r)
}

// Marshal serializes the content types with the XML declaration.
func (c *ContentTypes) Marshal() ([]byte, error) {
	return marshalPart(c)
}

func marshalPart(v any) ([]byte, error) {
	// Use Marshal (not MarshalIndent) to keep parts compact
	output, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return append([]byte(Declaration), output...), nil
}
