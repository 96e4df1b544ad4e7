package htmldocx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/archive"
)

const formattingFixture = `<h2>Heading</h2><p>Hello&nbsp;<strong>World</strong> and <em>friends</em></p>`

const listFixture = `<ul><li>One</li><li>Second <strong>bold</strong></li></ul><ol><li>Third</li></ol>`

func quietEngine(opts ...Option) *Engine {
	opts = append([]Option{WithConfig(DefaultConfig()), WithLogger(NewLogger(io.Discard, LogOff))}, opts...)
	return NewWithOptions(opts...)
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.Method != zip.Store {
			t.Errorf("%s: method = %d, want stored", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("%s: open error = %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("%s: read error = %v", f.Name, err)
		}
		if sum := archive.Checksum(content); sum != f.CRC32 {
			t.Errorf("%s: crc = %08x, recorded %08x", f.Name, sum, f.CRC32)
		}
		parts[f.Name] = content
	}
	return parts
}

func TestBuildDocx_PackageStructure(t *testing.T) {
	data, err := BuildDocx(formattingFixture)
	if err != nil {
		t.Fatalf("BuildDocx() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	wantOrder := []string{PartContentTypes, PartRootRels, PartDocument, PartNumbering}
	if len(zr.File) != len(wantOrder) {
		t.Fatalf("expected %d parts, got %d", len(wantOrder), len(zr.File))
	}
	for i, f := range zr.File {
		if f.Name != wantOrder[i] {
			t.Errorf("part %d = %s, want %s", i, f.Name, wantOrder[i])
		}
	}

	parts := readZip(t, data)
	contentTypes := string(parts[PartContentTypes])
	for _, want := range []string{
		`<Default Extension="rels"`,
		`<Default Extension="xml"`,
		`<Override PartName="/word/document.xml"`,
		`<Override PartName="/word/numbering.xml"`,
	} {
		if !strings.Contains(contentTypes, want) {
			t.Errorf("[Content_Types].xml missing %s", want)
		}
	}
	if !strings.Contains(string(parts[PartRootRels]), `Target="word/document.xml"`) {
		t.Errorf("_rels/.rels does not target the main document: %s", parts[PartRootRels])
	}
}

func TestBuild_FormattingFixture(t *testing.T) {
	doc, err := quietEngine().Build(formattingFixture)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	document := string(readZip(t, doc.Bytes())[PartDocument])

	for _, want := range []string{
		`<w:pStyle w:val="Heading2"/>`,
		`<w:t xml:space="preserve">Hello </w:t>`,
		`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">World</w:t></w:r>`,
		`<w:r><w:rPr><w:i/></w:rPr><w:t xml:space="preserve">friends</w:t></w:r>`,
	} {
		if !strings.Contains(document, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

func TestBuild_ListFixture(t *testing.T) {
	doc, err := quietEngine().Build(listFixture)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	parts := readZip(t, doc.Data)
	document := string(parts[PartDocument])
	numbering := string(parts[PartNumbering])

	if got := strings.Count(document, `<w:numId w:val="1"/>`); got != 2 {
		t.Errorf("expected 2 paragraphs with numId 1, got %d", got)
	}
	if got := strings.Count(document, `<w:numId w:val="2"/>`); got != 1 {
		t.Errorf("expected 1 paragraph with numId 2, got %d", got)
	}
	for _, want := range []string{`<w:numFmt w:val="bullet"/>`, `<w:numFmt w:val="decimal"/>`} {
		if !strings.Contains(numbering, want) {
			t.Errorf("numbering.xml missing %s", want)
		}
	}

	// Run splitting: "Second " and "bold" are separate runs.
	if !strings.Contains(document, `<w:t xml:space="preserve">Second </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">bold</w:t>`) {
		t.Error("expected the list item to split into a plain and a bold run")
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	doc, err := quietEngine().Build("")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	parts := readZip(t, doc.Data)
	if len(parts) != 4 {
		t.Errorf("expected 4 parts, got %d", len(parts))
	}
	if !strings.Contains(string(parts[PartDocument]), `<w:body><w:p/><w:sectPr>`) {
		t.Errorf("expected one empty paragraph, got %s", parts[PartDocument])
	}
	if strings.Contains(string(parts[PartNumbering]), "<w:num ") {
		t.Error("expected no numbering instances")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	input := formattingFixture + listFixture
	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			engine := quietEngine(WithNormalizer(s.normalizer))
			first, err := engine.Build(input)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			second, err := engine.Build(input)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if !bytes.Equal(first.Data, second.Data) {
				t.Error("two builds of the same input differ")
			}
			if first.Digest() != second.Digest() || len(first.Digest()) != 64 {
				t.Errorf("unexpected digests %s, %s", first.Digest(), second.Digest())
			}
		})
	}
}

func TestBuild_StrategiesAgree(t *testing.T) {
	inputs := []string{formattingFixture, listFixture, "", "loose\n\ntext", `<ul><li>a<ol><li>b</li></ol></li></ul>`}
	for _, input := range inputs {
		dom, err := quietEngine(WithNormalizer(DOMNormalizer{})).Build(input)
		if err != nil {
			t.Fatalf("dom Build(%q) error = %v", input, err)
		}
		tok, err := quietEngine(WithNormalizer(TokenizerNormalizer{})).Build(input)
		if err != nil {
			t.Fatalf("tokenizer Build(%q) error = %v", input, err)
		}
		if dom.Digest() != tok.Digest() {
			t.Errorf("strategies disagree on %q", input)
		}
	}
}

func TestBuild_LinkNumbering(t *testing.T) {
	doc, err := quietEngine(WithLinkNumbering(true)).Build(listFixture)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	parts := readZip(t, doc.Data)
	if len(parts) != 5 {
		t.Fatalf("expected 5 parts, got %d", len(parts))
	}
	rels := string(parts[PartDocumentRels])
	if !strings.Contains(rels, `Target="numbering.xml"`) {
		t.Errorf("document rels missing numbering target: %s", rels)
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("malformed input", func(t *testing.T) {
		_, err := quietEngine().Build("ok\xc3")
		var merr *MalformedInputError
		if !errors.As(err, &merr) || merr.Offset != 2 {
			t.Errorf("expected MalformedInputError at 2, got %v", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		engine := quietEngine(WithMaxInputSize(10))
		if _, err := engine.Build(strings.Repeat("a", 10)); err != nil {
			t.Errorf("input at the limit rejected: %v", err)
		}
		_, err := engine.Build(strings.Repeat("a", 11))
		if !IsInputTooLarge(err) {
			t.Fatalf("expected ErrInputTooLarge, got %v", err)
		}
		var terr *InputTooLargeError
		if !errors.As(err, &terr) || terr.Size != 11 || terr.Limit != 10 {
			t.Errorf("unexpected error %#v", err)
		}
	})

	t.Run("unknown normalizer", func(t *testing.T) {
		engine := NewWithConfig(&Config{Normalizer: "bogus", LogLevel: "off"})
		if _, err := engine.Build("<p>x</p>"); !errors.Is(err, ErrUnknownNormalizer) {
			t.Errorf("expected ErrUnknownNormalizer, got %v", err)
		}
	})
}

func TestBuild_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	engine := quietEngine(WithLogger(NewLogger(&buf, LogDebug)))
	if _, err := engine.Build(listFixture); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	line := buf.String()
	for _, want := range []string{"[DEBUG] built docx package", "blocks=3", "numbering=2"} {
		if !strings.Contains(line, want) {
			t.Errorf("log output missing %q: %s", want, line)
		}
	}
	if strings.Contains(line, "Second") {
		t.Error("document content must not be logged")
	}
}

func TestDocument_Accessors(t *testing.T) {
	doc, err := quietEngine().Build("<p>x</p>")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.ContentType != MIMEType {
		t.Errorf("ContentType = %q", doc.ContentType)
	}

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	if err != nil || n != int64(len(doc.Data)) || !bytes.Equal(buf.Bytes(), doc.Bytes()) {
		t.Errorf("WriteTo() = %d, %v", n, err)
	}

	read, err := io.ReadAll(doc.Reader())
	if err != nil || !bytes.Equal(read, doc.Data) {
		t.Errorf("Reader() returned different bytes")
	}
}

func TestEngine_BuildMarkdown(t *testing.T) {
	doc, err := quietEngine().BuildMarkdown("# Title\n\n- a\n- b\n\n~~gone~~ **bold**\n")
	if err != nil {
		t.Fatalf("BuildMarkdown() error = %v", err)
	}
	document := string(readZip(t, doc.Data)[PartDocument])
	for _, want := range []string{
		`<w:pStyle w:val="Heading1"/>`,
		`<w:rPr><w:strike/></w:rPr><w:t xml:space="preserve">gone</w:t>`,
		`<w:rPr><w:b/></w:rPr><w:t xml:space="preserve">bold</w:t>`,
	} {
		if !strings.Contains(document, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

func TestNewWithConfig_AppliesDefaults(t *testing.T) {
	engine := NewWithConfig(&Config{MaxInputSize: 5})
	cfg := engine.Config()
	if cfg.MaxInputSize != 5 || cfg.LogLevel != "info" || cfg.Normalizer != NormalizerDOM {
		t.Errorf("unexpected config %+v", cfg)
	}

	engine.SetConfig(nil)
	if engine.Config().MaxInputSize != 0 {
		t.Error("SetConfig(nil) should restore defaults")
	}
}

func TestBuildDocx_Concurrent(t *testing.T) {
	originalConfig := GetGlobalConfig()
	originalLogger := GetLogger()
	defer func() {
		SetLogger(originalLogger)
		SetGlobalConfig(originalConfig)
	}()
	SetGlobalConfig(DefaultConfig())
	SetLogger(NewLogger(io.Discard, LogDebug))

	input := formattingFixture + listFixture + `<ul><li>a<ol><li>b</li></ol></li></ul>`
	reference, err := BuildDocx(input)
	if err != nil {
		t.Fatalf("BuildDocx() error = %v", err)
	}

	var logBuf bytes.Buffer
	shared := quietEngine(WithLogger(NewLogger(&logBuf, LogDebug)), WithNormalizer(TokenizerNormalizer{}))

	const workers = 32
	results := make([][]byte, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i], errs[i] = BuildDocx(input)
				return
			}
			doc, err := shared.Build(input)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = doc.Data
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Errorf("worker %d: error = %v", i, errs[i])
			continue
		}
		if !bytes.Equal(results[i], reference) {
			t.Errorf("worker %d: package differs from the reference build", i)
		}
	}
	if got := strings.Count(logBuf.String(), "built docx package"); got != workers/2 {
		t.Errorf("logged %d builds, want %d", got, workers/2)
	}
}

func TestEngine_ZeroValue(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)
	SetGlobalConfig(&Config{LogLevel: "off", Normalizer: NormalizerDOM, MaxInputSize: 8})

	var engine Engine
	doc, err := engine.Build("<p>x</p>")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want, err := quietEngine().Build("<p>x</p>")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !bytes.Equal(doc.Data, want.Data) {
		t.Error("zero Engine output differs from a configured engine")
	}

	if _, err := engine.Build("<p>too long</p>"); !IsInputTooLarge(err) {
		t.Errorf("expected the global size limit to apply, got %v", err)
	}
	if engine.Config().MaxInputSize != 8 {
		t.Errorf("Config() = %+v, want the global configuration", engine.Config())
	}
}
