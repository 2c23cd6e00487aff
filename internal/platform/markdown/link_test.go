package markdown_test

import (
	"testing"

	"mdnotes/internal/platform/markdown"
)

func TestFormatInternalLinkStyles(t *testing.T) {
	t.Parallel()
	inputs := []string{"Daniel Kahneman", "2011", "", "Draft/Outline: v2"}
	for _, input := range inputs {
		if got := markdown.FormatInternalLink(input, markdown.LinkStyleWiki); got != "[["+input+"]]" {
			t.Fatalf("wiki %q: got %q", input, got)
		}
		for _, style := range []markdown.LinkStyle{markdown.LinkStylePlain, "no-links", ""} {
			if got := markdown.FormatInternalLink(input, style); got != input {
				t.Fatalf("style %q on %q: got %q", style, input, got)
			}
		}
	}
	if got := markdown.FormatInternalLink("Daniel Kahneman", markdown.LinkStyleMarkdown); got != "[Daniel Kahneman](daniel-kahneman)" {
		t.Fatalf("markdown link: got %q", got)
	}
}

func TestFormatInternalLinkMarkdownWithoutWordCharacters(t *testing.T) {
	t.Parallel()
	if got := markdown.FormatInternalLink("—", markdown.LinkStyleMarkdown); got != "—" {
		t.Fatalf("expected plain fallback, got %q", got)
	}
}

func TestHashtag(t *testing.T) {
	t.Parallel()
	tag, ok := markdown.Hashtag("Machine Learning")
	if !ok || tag != "#machine-learning" {
		t.Fatalf("unexpected hashtag %q ok=%t", tag, ok)
	}
	if _, ok := markdown.Hashtag("!!"); ok {
		t.Fatalf("expected hashtag failure for punctuation-only tag")
	}
}

func TestTableRow(t *testing.T) {
	t.Parallel()
	if got := markdown.TableRow("Tags", ""); got != "| Tags |  |\n" {
		t.Fatalf("unexpected row %q", got)
	}
}
