package domain

import (
	"regexp"
	"strings"
)

// Note is one converted note. Title and Content are derived once and never
// mutated afterwards.
type Note struct {
	Title   string
	Content string
}

type BlockKind int

const (
	BlockPlainParagraph BlockKind = iota
	BlockHeading
	BlockQuote
	BlockComment
	BlockUnorderedList
	BlockOrderedList
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockQuote:
		return "quote"
	case BlockComment:
		return "comment"
	case BlockUnorderedList:
		return "unordered_list"
	case BlockOrderedList:
		return "ordered_list"
	default:
		return "paragraph"
	}
}

// Block is a body element after link rewriting and tag substitution.
type Block struct {
	// Tag is the element name of the block, e.g. "p" or "ul".
	Tag string
	// Inner is the substituted inner markup.
	Inner string
	// Outer is Inner wrapped in the block's own open and close tags.
	Outer string
	// Text is the text content of Inner.
	Text string
	// Items holds the text content of each list item of ul/ol blocks.
	Items []string
}

var (
	commentStart = regexp.MustCompile(`^<p>\s*<!--`)
	commentEnd   = regexp.MustCompile(`-->\s*</p>$`)
)

// Classify picks the rendering of a block. The first matching rule wins.
func Classify(b Block) BlockKind {
	switch {
	case strings.HasPrefix(b.Inner, `"#`):
		return BlockHeading
	case strings.HasPrefix(b.Inner, `"`):
		return BlockQuote
	case commentStart.MatchString(b.Outer) && commentEnd.MatchString(b.Outer):
		return BlockComment
	case b.Tag == "ul":
		return BlockUnorderedList
	case b.Tag == "ol":
		return BlockOrderedList
	default:
		return BlockPlainParagraph
	}
}

// Render emits the Markdown unit for a block, terminated by a blank line.
func Render(kind BlockKind, b Block) string {
	switch kind {
	case BlockHeading:
		rest := strings.TrimPrefix(b.Text, `"#`)
		if i := strings.LastIndex(rest, `"`); i >= 0 {
			rest = rest[:i]
		}
		return strings.TrimSpace(rest) + "\n\n"
	case BlockQuote:
		rest := strings.TrimPrefix(b.Text, `"`)
		quoted, trailing := rest, ""
		if i := strings.LastIndex(rest, `"`); i >= 0 {
			quoted, trailing = rest[:i], rest[i+1:]
		}
		return "> " + quoted + trailing + "\n\n"
	case BlockComment:
		inner := strings.TrimSpace(b.Inner)
		inner = strings.TrimPrefix(inner, "<!--")
		inner = strings.TrimSuffix(inner, "-->")
		return strings.TrimSpace(inner) + "\n\n"
	case BlockUnorderedList:
		return renderList(b.Items, "-")
	case BlockOrderedList:
		return renderList(b.Items, "1.")
	default:
		return b.Text + "\n\n"
	}
}

// Every ordered item gets "1."; renderers number them.
func renderList(items []string, bullet string) string {
	var out strings.Builder
	for _, item := range items {
		out.WriteString(bullet)
		out.WriteString(" ")
		out.WriteString(item)
		out.WriteString("\n")
	}
	out.WriteString("\n")
	return out.String()
}
