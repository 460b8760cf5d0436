package mdtext

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlain_StripsInlineMarkup(t *testing.T) {
	got := Plain([]byte("Some **bold** and _italic_ and `code` text"))
	want := "Some bold and italic and code text"
	if got != want {
		t.Fatalf("Plain = %q, want %q", got, want)
	}
}

func TestPlain_Headings(t *testing.T) {
	got := Plain([]byte("# Title\n\nBody paragraph."))
	want := "Title Body paragraph."
	if got != want {
		t.Fatalf("Plain = %q, want %q", got, want)
	}
}

func TestPlain_Links(t *testing.T) {
	got := Plain([]byte("See [the docs](https://example.com) for more."))
	want := "See the docs for more."
	if got != want {
		t.Fatalf("Plain = %q, want %q", got, want)
	}
}

func TestPlain_ParagraphsSeparatedBySpace(t *testing.T) {
	got := Plain([]byte("First paragraph.\n\nSecond paragraph."))
	want := "First paragraph. Second paragraph."
	if got != want {
		t.Fatalf("Plain = %q, want %q", got, want)
	}
}

func TestPlain_SoftLineBreak(t *testing.T) {
	got := Plain([]byte("line one\nline two"))
	want := "line one line two"
	if got != want {
		t.Fatalf("Plain = %q, want %q", got, want)
	}
}

func TestPlain_Lists(t *testing.T) {
	got := Plain([]byte("- alpha\n- beta\n- gamma"))
	want := "alpha beta gamma"
	if got != want {
		t.Fatalf("Plain = %q, want %q", got, want)
	}
}

func TestPlain_FencedCodeBlock(t *testing.T) {
	got := Plain([]byte("Before\n\n```go\nfmt.Println(\"hi\")\n```\n\nAfter"))
	if !strings.Contains(got, `fmt.Println("hi")`) {
		t.Fatalf("Plain = %q, want code content kept", got)
	}
	if strings.Contains(got, "```") {
		t.Fatalf("Plain = %q, fences should be dropped", got)
	}
}

func TestPlain_Empty(t *testing.T) {
	if got := Plain(nil); got != "" {
		t.Fatalf("Plain(nil) = %q, want empty", got)
	}
	if got := Plain([]byte("   \n\n  ")); got != "" {
		t.Fatalf("Plain(whitespace) = %q, want empty", got)
	}
}

func TestExcerpt_ShortTextUnchanged(t *testing.T) {
	if got := Excerpt("short text", ExcerptLength); got != "short text" {
		t.Fatalf("Excerpt = %q", got)
	}
}

func TestExcerpt_TruncatesAtBudget(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := Excerpt(long, ExcerptLength)

	if utf8.RuneCountInString(got) > ExcerptLength+1 { // +1 for the ellipsis
		t.Fatalf("excerpt too long: %d runes", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated excerpt should end with ellipsis: %q", got)
	}
}

func TestExcerpt_RuneSafe(t *testing.T) {
	long := strings.Repeat("héllo wörld ", 30)
	got := Excerpt(long, ExcerptLength)

	if !utf8.ValidString(got) {
		t.Fatalf("excerpt split a multi-byte rune: %q", got)
	}
}

func TestExcerpt_ExactBoundary(t *testing.T) {
	exact := strings.Repeat("b", ExcerptLength)
	if got := Excerpt(exact, ExcerptLength); got != exact {
		t.Fatalf("text at exactly the budget should be unchanged")
	}
}

func TestExcerpt_TrimsWhitespace(t *testing.T) {
	if got := Excerpt("  padded  ", ExcerptLength); got != "padded" {
		t.Fatalf("Excerpt = %q, want %q", got, "padded")
	}
}
