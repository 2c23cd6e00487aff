package dto

import "time"

type ListItemsInput struct {
	Keys       []string
	Tags       []string
	Collection string
}

type RelatedOutput struct {
	Key         string
	Title       string
	CitationKey string
}

type AttachmentOutput struct {
	Key         string
	Title       string
	ContentType string
	Path        string
	URI         string
}

type ItemOutput struct {
	Key              string
	LibraryID        int
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
	Related          []RelatedOutput
	PDFs             []AttachmentOutput
	LocalURI         string
	CloudURI         string
	Notes            []string
}
