package htmldocx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/archive"
	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/ooxml"
)

// PackageReader reads the parts of a DOCX package, typically one produced
// by Build.
type PackageReader struct {
	reader *zip.Reader
	parts  map[string]*zip.File
}

// PartInfo describes one part as recorded in the central directory.
type PartInfo struct {
	Name   string
	Size   uint64
	CRC32  uint32
	Method uint16
}

// ReadPackage opens a DOCX package held in memory.
func ReadPackage(data []byte) (*PackageReader, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewDocumentError("open", "", fmt.Errorf("%w: %v", ErrNotDocx, err))
	}

	pr := &PackageReader{
		reader: zipReader,
		parts:  make(map[string]*zip.File, len(zipReader.File)),
	}
	for _, file := range zipReader.File {
		pr.parts[file.Name] = file
	}

	if _, ok := pr.parts[PartDocument]; !ok {
		return nil, NewDocumentError("open", "", fmt.Errorf("%w: missing %s", ErrNotDocx, PartDocument))
	}
	return pr, nil
}

// OpenPackage reads a DOCX package from a file.
func OpenPackage(filename string) (*PackageReader, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, NewDocumentError("read", filename, err)
	}
	return ReadPackage(content)
}

// ListParts returns the part names in archive order.
func (pr *PackageReader) ListParts() []string {
	names := make([]string, 0, len(pr.reader.File))
	for _, file := range pr.reader.File {
		names = append(names, file.Name)
	}
	return names
}

// Parts returns the central directory records in archive order.
func (pr *PackageReader) Parts() []PartInfo {
	infos := make([]PartInfo, 0, len(pr.reader.File))
	for _, file := range pr.reader.File {
		infos = append(infos, PartInfo{
			Name:   file.Name,
			Size:   file.UncompressedSize64,
			CRC32:  file.CRC32,
			Method: file.Method,
		})
	}
	return infos
}

// Part returns the content of a part.
func (pr *PackageReader) Part(name string) ([]byte, error) {
	file, ok := pr.parts[name]
	if !ok {
		return nil, NewDocumentError("read", name, fmt.Errorf("part not found"))
	}

	rc, err := file.Open()
	if err != nil {
		return nil, NewDocumentError("open", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewDocumentError("read", name, err)
	}
	return content, nil
}

// Verify recomputes the checksum of every part and compares it with the
// value recorded in the archive.
func (pr *PackageReader) Verify() error {
	for _, file := range pr.reader.File {
		content, err := pr.Part(file.Name)
		if err != nil {
			return err
		}
		if sum := archive.Checksum(content); sum != file.CRC32 {
			return NewDocumentError("verify", file.Name,
				fmt.Errorf("crc mismatch: recorded %08x, computed %08x", file.CRC32, sum))
		}
	}
	return nil
}

// Document parses word/document.xml.
func (pr *PackageReader) Document() (*ooxml.Document, error) {
	content, err := pr.Part(PartDocument)
	if err != nil {
		return nil, err
	}
	doc, err := ooxml.ParseDocument(bytes.NewReader(content))
	if err != nil {
		return nil, NewDocumentError("parse", PartDocument, err)
	}
	return doc, nil
}

// Numbering parses word/numbering.xml. A package without the part yields an
// empty definition set.
func (pr *PackageReader) Numbering() (*ooxml.Numbering, error) {
	if _, ok := pr.parts[PartNumbering]; !ok {
		return &ooxml.Numbering{}, nil
	}
	content, err := pr.Part(PartNumbering)
	if err != nil {
		return nil, err
	}
	numbering, err := ooxml.ParseNumbering(bytes.NewReader(content))
	if err != nil {
		return nil, NewDocumentError("parse", PartNumbering, err)
	}
	return numbering, nil
}

// Relationships returns the relationships of a part, or of the package when
// partName is empty. A missing relationships part is not an error.
func (pr *PackageReader) Relationships(partName string) ([]ooxml.Relationship, error) {
	relPath := "_rels/.rels"
	if partName != "" {
		dir, base := path.Split(partName)
		relPath = dir + "_rels/" + base + ".rels"
	}

	if _, ok := pr.parts[relPath]; !ok {
		return []ooxml.Relationship{}, nil
	}
	content, err := pr.Part(relPath)
	if err != nil {
		return nil, err
	}

	var rels ooxml.Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, NewDocumentError("parse", relPath, err)
	}
	return rels.Relationship, nil
}
