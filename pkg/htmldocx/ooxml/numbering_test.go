package ooxml

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

func TestNewAbstractNum(t *testing.T) {
	tests := []struct {
		format    string
		wantText0 string
		wantText1 string
	}{
		{FormatBullet, "•", "◦"},
		{FormatDecimal, "%1.", "%2."},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			a := NewAbstractNum(3, tt.format)
			if a.ID != 3 {
				t.Errorf("ID = %d, want 3", a.ID)
			}
			if len(a.Levels) != MaxLevel+1 {
				t.Fatalf("expected %d levels, got %d", MaxLevel+1, len(a.Levels))
			}
			for i, lvl := range a.Levels {
				if lvl.Index != i {
					t.Errorf("level %d has index %d", i, lvl.Index)
				}
				if lvl.Format.Val != tt.format {
					t.Errorf("level %d format = %q", i, lvl.Format.Val)
				}
				if lvl.Indentation.Left != 720*(i+1) {
					t.Errorf("level %d left indent = %d", i, lvl.Indentation.Left)
				}
			}
			if a.Levels[0].Text.Val != tt.wantText0 || a.Levels[1].Text.Val != tt.wantText1 {
				t.Errorf("level texts = %q, %q", a.Levels[0].Text.Val, a.Levels[1].Text.Val)
			}
		})
	}
}

func TestNumberingMarshal(t *testing.T) {
	n := &Numbering{
		AbstractNums: []AbstractNum{NewAbstractNum(1, FormatBullet), NewAbstractNum(2, FormatDecimal)},
		Nums: []Num{
			{ID: 1, AbstractNumID: IntValue{Val: 1}},
			{ID: 2, AbstractNumID: IntValue{Val: 2}},
		},
	}
	out := string(n.Marshal())

	for _, want := range []string{
		`<w:numbering xmlns:w="` + NamespaceMain + `">`,
		`<w:numFmt w:val="bullet"/>`,
		`<w:numFmt w:val="decimal"/>`,
		`<w:num w:numId="1"><w:abstractNumId w:val="1"/></w:num>`,
		`<w:num w:numId="2"><w:abstractNumId w:val="2"/></w:num>`,
		`<w:lvlText w:val="%1."/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("numbering.xml missing %s", want)
		}
	}

	lastAbstract := strings.LastIndex(out, "<w:abstractNum ")
	firstNum := strings.Index(out, "<w:num ")
	if lastAbstract > firstNum {
		t.Error("all abstractNum elements must precede num elements")
	}

	if err := xml.Unmarshal([]byte(out), new(struct{})); err != nil {
		t.Errorf("numbering.xml is not well-formed: %v", err)
	}
}

func TestParseNumbering_FormatOf(t *testing.T) {
	n := &Numbering{
		AbstractNums: []AbstractNum{NewAbstractNum(1, FormatDecimal), NewAbstractNum(2, FormatBullet)},
		Nums: []Num{
			{ID: 1, AbstractNumID: IntValue{Val: 1}},
			{ID: 2, AbstractNumID: IntValue{Val: 2}},
		},
	}

	parsed, err := ParseNumbering(bytes.NewReader(n.Marshal()))
	if err != nil {
		t.Fatalf("ParseNumbering() error = %v", err)
	}
	if len(parsed.AbstractNums) != 2 || len(parsed.Nums) != 2 {
		t.Fatalf("unexpected counts: %d abstract, %d num", len(parsed.AbstractNums), len(parsed.Nums))
	}
	if got := parsed.FormatOf(1); got != FormatDecimal {
		t.Errorf("FormatOf(1) = %q", got)
	}
	if got := parsed.FormatOf(2); got != FormatBullet {
		t.Errorf("FormatOf(2) = %q", got)
	}
	if got := parsed.FormatOf(9); got != "" {
		t.Errorf("FormatOf(9) = %q, want empty", got)
	}
	if got := parsed.AbstractNums[0].Levels[2].Indentation.Left; got != 2160 {
		t.Errorf("level 2 indentation = %d", got)
	}
}

func TestEmptyNumberingIsWellFormed(t *testing.T) {
	out := (&Numbering{}).Marshal()
	parsed, err := ParseNumbering(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("ParseNumbering() error = %v", err)
	}
	if len(parsed.Nums) != 0 {
		t.Errorf("expected no nums, got %d", len(parsed.Nums))
	}
}

func TestPackagePartsMarshal(t *testing.T) {
	ct, err := NewContentTypes(ContentTypeOverride{PartName: "/word/document.xml", ContentType: ContentTypeDocument}).Marshal()
	if err != nil {
		t.Fatalf("ContentTypes.Marshal() error = %v", err)
	}
	for _, want := range []string{
		`<Types xmlns="` + NamespaceContentTypes + `">`,
		`<Default Extension="rels" ContentType="` + ContentTypeRelationships + `">`,
		`<Default Extension="xml" ContentType="application/xml">`,
		`<Override PartName="/word/document.xml" ContentType="` + ContentTypeDocument + `">`,
	} {
		if !strings.Contains(string(ct), want) {
			t.Errorf("[Content_Types].xml missing %s in %s", want, ct)
		}
	}

	rels, err := NewRelationships(Relationship{ID: "rId1", Type: RelTypeOfficeDocument, Target: "word/document.xml"}).Marshal()
	if err != nil {
		t.Fatalf("Relationships.Marshal() error = %v", err)
	}
	var parsed Relationships
	if err := xml.Unmarshal(rels[len(Declaration):], &parsed); err != nil {
		t.Fatalf("rels not parseable: %v", err)
	}
	if len(parsed.Relationship) != 1 || parsed.Relationship[0].Target != "word/document.xml" {
		t.Errorf("unexpected relationships %+v", parsed.Relationship)
	}
}
