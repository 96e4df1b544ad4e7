package htmldocx

import (
	"reflect"
	"strings"
	"testing"
)

func TestFromMarkdown_SoftBreak(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []Run
	}{
		{
			name:     "wrapped line joins",
			markdown: "one sentence that\nwraps in source\n",
			want:     []Run{plain("one sentence that wraps in source")},
		},
		{
			name:     "wrapped line with formatting",
			markdown: "plain and\n**bold** text\n",
			want:     []Run{plain("plain and "), {Text: "bold", Bold: true}, plain(" text")},
		},
		{
			name:     "hard break with trailing spaces",
			markdown: "first  \nsecond\n",
			want:     []Run{plain("first"), lineBreak, plain("second")},
		},
		{
			name:     "hard break with backslash",
			markdown: "first\\\nsecond\n",
			want:     []Run{plain("first"), lineBreak, plain("second")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := FromMarkdown(tt.markdown)
			if err != nil {
				t.Fatalf("FromMarkdown() error = %v", err)
			}
			for _, s := range strategies {
				got, err := s.normalizer.Normalize(html)
				if err != nil {
					t.Fatalf("%s: Normalize() error = %v", s.name, err)
				}
				if len(got.Blocks) != 1 {
					t.Fatalf("%s: got %d blocks from %q, want 1", s.name, len(got.Blocks), html)
				}
				if !reflect.DeepEqual(got.Blocks[0].Runs, tt.want) {
					t.Errorf("%s: runs = %+v, want %+v", s.name, got.Blocks[0].Runs, tt.want)
				}
			}
		})
	}
}

func TestFromMarkdown_CodeBlockKeepsLines(t *testing.T) {
	html, err := FromMarkdown("```\nline one\nline two\n```\n")
	if err != nil {
		t.Fatalf("FromMarkdown() error = %v", err)
	}
	if !strings.Contains(html, "line one\nline two") {
		t.Errorf("code block lost its newline: %q", html)
	}
}

func TestFromMarkdown_MalformedInput(t *testing.T) {
	if _, err := FromMarkdown("ok\xff"); !IsMalformedInput(err) {
		t.Errorf("expected malformed input error, got %v", err)
	}
}
