package domain

import (
	"fmt"
	"strings"
	"time"
)

// UndefinedCitekey stands in for a citation key no resolver could produce.
const UndefinedCitekey = "undefined"

const ContentTypePDF = "application/pdf"

// Item is one bibliographic record. Items are read-only once loaded.
type Item struct {
	Key              string
	LibraryID        int
	Type             string
	Title            string
	Authors          []string
	Date             string
	DateAdded        time.Time
	PublicationTitle string
	URL              string
	DOI              string
	Abstract         string
	Extra            string
	CitationKey      string
	Tags             []string
	// Collections are display names; CollectionPaths the same collections
	// as "Parent/Child" paths.
	Collections     []string
	CollectionPaths []string
	Related         []Related
	Attachments     []Attachment
	CloudURI        string
	// Notes are the raw HTML bodies of the item's child notes in store order.
	Notes []string
}

type Related struct {
	Key         string
	Title       string
	CitationKey string
}

type Attachment struct {
	Key         string
	Title       string
	ContentType string
	Path        string
}

func (a Attachment) IsPDF() bool {
	return strings.EqualFold(a.ContentType, ContentTypePDF)
}

// Creator is a contributor as stored; only authors reach Item.Authors.
type Creator struct {
	First string
	Last  string
	Role  string
}

func (c Creator) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.First) + " " + strings.TrimSpace(c.Last))
}

// AuthorNames keeps author creators in order.
func AuthorNames(creators []Creator) []string {
	out := make([]string, 0, len(creators))
	for _, c := range creators {
		if c.Role != "" && c.Role != "author" {
			continue
		}
		if name := c.DisplayName(); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// LocalURI selects the item in the desktop reference manager.
func (i Item) LocalURI() string {
	return fmt.Sprintf("zotero://select/items/%d_%s", i.LibraryID, i.Key)
}

// PDFURI opens a PDF attachment in the reference manager's reader.
func PDFURI(attachmentKey string) string {
	return "zotero://open-pdf/library/items/" + attachmentKey
}

// Citekey returns the resolved citation key or UndefinedCitekey.
func (i Item) Citekey() string {
	if strings.TrimSpace(i.CitationKey) == "" {
		return UndefinedCitekey
	}
	return i.CitationKey
}

func (r Related) Citekey() string {
	if strings.TrimSpace(r.CitationKey) == "" {
		return UndefinedCitekey
	}
	return r.CitationKey
}

// PDFs returns the attachments rendered in exports.
func (i Item) PDFs() []Attachment {
	out := []Attachment{}
	for _, a := range i.Attachments {
		if a.IsPDF() {
			out = append(out, a)
		}
	}
	return out
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Key) == "" {
		return fmt.Errorf("item key is required")
	}
	return nil
}
