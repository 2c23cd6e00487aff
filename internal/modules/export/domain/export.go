package domain

import (
	"fmt"
	"time"

	apperrors "mdnotes/internal/platform/errors"
)

// Item is the read-only view of a bibliographic item the export needs.
// CitationKey is already resolved or set to "undefined".
type Item struct {
	Key              string
	Type             string
	TypeLabel        string
	Title            string
	Authors          []string
	Date             string
	DateAdded        time.Time
	PublicationTitle string
	URL              string
	DOI              string
	Abstract         string
	CitationKey      string
	CitedKeys        []string
	Tags             []string
	Collections      []string
	Related          []Related
	PDFs             []PDF
	LocalURI         string
	CloudURI         string
	Notes            []string
}

type Related struct {
	Title       string
	CitationKey string
}

type PDF struct {
	Title string
	URI   string
}

type Note struct {
	Title   string
	Content string
}

// OutputFile is one generated Markdown file. Name carries no extension.
type OutputFile struct {
	Name     string
	Contents string
}

type Selection struct {
	Keys       []string
	Tags       []string
	Collection string
}

type Mode string

const (
	ModeBatch     Mode = "batch"
	ModeItem      Mode = "item"
	ModeNotes     Mode = "notes"
	ModeCompanion Mode = "companion"
)

func (m Mode) Validate() error {
	switch m {
	case ModeBatch, ModeItem, ModeNotes, ModeCompanion:
		return nil
	default:
		return fmt.Errorf("%w: unknown export mode %q", apperrors.ErrInvalidInput, m)
	}
}

type LinkResult string

const (
	LinkCreated   LinkResult = "created"
	LinkRefreshed LinkResult = "refreshed"
	LinkSkipped   LinkResult = "skipped"
)

type FileResult struct {
	Name    string
	Path    string
	Skipped bool
	Link    LinkResult
}

type ItemResult struct {
	Key   string
	Files []FileResult
	Err   error
}

func (r ItemResult) Written() int {
	n := 0
	for _, f := range r.Files {
		if !f.Skipped {
			n++
		}
	}
	return n
}

type RunResult struct {
	RunID string
	Items []ItemResult
}

func (r RunResult) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Err != nil {
			n++
		}
	}
	return n
}

func (r RunResult) Written() int {
	n := 0
	for _, item := range r.Items {
		n += item.Written()
	}
	return n
}
