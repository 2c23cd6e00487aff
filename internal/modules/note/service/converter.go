package service

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mdnotes/internal/modules/note/domain"
)

// Converter turns note-editor HTML into a Note. It holds no state and is
// safe for concurrent use.
type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

// Convert never fails: markup it does not understand degrades to its text.
func (c *Converter) Convert(source string) domain.Note {
	blocks := parseBlocks(source)
	if len(blocks) == 0 {
		return domain.Note{}
	}
	note := domain.Note{Title: domain.FormatTitle(textContent(blocks[0]))}

	var content strings.Builder
	for _, node := range blocks[1:] {
		block, ok := prepareBlock(node)
		if !ok {
			continue
		}
		content.WriteString(domain.Render(domain.Classify(block), block))
	}
	note.Content = content.String()
	return note
}

func parseBlocks(source string) []*html.Node {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(source), body)
	if err != nil {
		return nil
	}
	blocks := topLevel(nodes)
	if len(blocks) == 1 && isSchemaWrapper(blocks[0]) {
		return topLevel(children(blocks[0]))
	}
	return blocks
}

func topLevel(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			out = append(out, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

func children(n *html.Node) []*html.Node {
	out := []*html.Node{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Newer editors wrap the whole note in <div data-schema-version="N">.
func isSchemaWrapper(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Div {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "data-schema-version" {
			return true
		}
	}
	return false
}

func prepareBlock(n *html.Node) (domain.Block, bool) {
	if n.Type != html.ElementNode {
		return domain.Block{}, false
	}
	rewriteLinks(n)
	raw := innerHTML(n)
	if raw == "" {
		return domain.Block{}, false
	}
	inner := domain.Substitute(raw)
	block := domain.Block{
		Tag:   n.Data,
		Inner: inner,
		Outer: openTag(n) + inner + "</" + n.Data + ">",
	}

	fragmentContext := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
	reparsed, err := html.ParseFragment(strings.NewReader(inner), fragmentContext)
	if err != nil {
		block.Text = inner
		return block, true
	}
	var text strings.Builder
	for _, r := range reparsed {
		text.WriteString(textContent(r))
		if r.Type == html.ElementNode && r.DataAtom == atom.Li {
			block.Items = append(block.Items, strings.TrimSpace(textContent(r)))
		}
	}
	block.Text = text.String()
	return block, true
}

// rewriteLinks replaces every <a> below n with the text [label](href).
func rewriteLinks(n *html.Node) {
	var anchors []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.A {
				anchors = append(anchors, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	for _, a := range anchors {
		link := &html.Node{Type: html.TextNode, Data: "[" + textContent(a) + "](" + attr(a, "href") + ")"}
		a.Parent.InsertBefore(link, a)
		a.Parent.RemoveChild(a)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.CommentNode:
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
