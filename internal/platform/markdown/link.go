package markdown

import (
	"strings"

	"mdnotes/internal/platform/slug"
)

type LinkStyle string

const (
	LinkStyleWiki     LinkStyle = "wiki"
	LinkStyleMarkdown LinkStyle = "markdown"
	LinkStylePlain    LinkStyle = "plain"
)

// FormatInternalLink renders text as a vault cross-reference. Any style other
// than wiki or markdown returns text unchanged.
func FormatInternalLink(text string, style LinkStyle) string {
	switch style {
	case LinkStyleWiki:
		return "[[" + text + "]]"
	case LinkStyleMarkdown:
		target, err := slug.Make(text)
		if err != nil {
			return text
		}
		return "[" + text + "](" + target + ")"
	default:
		return text
	}
}

// Hashtag renders text as a lowercase dashed tag. ok is false when text has
// no word characters.
func Hashtag(text string) (string, bool) {
	s, err := slug.Make(text)
	if err != nil {
		return "", false
	}
	return "#" + s, true
}

// Link renders an inline Markdown link.
func Link(text, target string) string {
	return "[" + text + "](" + target + ")"
}

// TableRow renders a two-cell table row.
func TableRow(label, value string) string {
	var b strings.Builder
	b.WriteString("| ")
	b.WriteString(label)
	b.WriteString(" | ")
	b.WriteString(value)
	b.WriteString(" |\n")
	return b.String()
}
