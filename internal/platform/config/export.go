package config

import (
	"fmt"

	apperrors "mdnotes/internal/platform/errors"
	"mdnotes/internal/platform/markdown"
)

type TagFormat string

const (
	TagFormatInternal TagFormat = "internal"
	TagFormatHashtag  TagFormat = "hashtag"
)

type FileConf string

const (
	FileConfSplit    FileConf = "split"
	FileConfCombined FileConf = "combined"
)

// Export is the option set of one export run. It is resolved once and never
// mutated while items are being exported.
type Export struct {
	LinkStyle          markdown.LinkStyle `yaml:"link_style"`
	LinkDates          bool               `yaml:"link_dates"`
	ExportType         bool               `yaml:"export_type"`
	LinkType           bool               `yaml:"link_type"`
	ExportAuthors      bool               `yaml:"export_authors"`
	ExportDates        bool               `yaml:"export_dates"`
	ExportPubTitle     bool               `yaml:"export_pub_title"`
	ExportURLs         bool               `yaml:"export_urls"`
	ExportCitekey      bool               `yaml:"export_citekey"`
	ExportCollections  bool               `yaml:"export_collections"`
	ExportRelated      bool               `yaml:"export_related"`
	ExportTags         bool               `yaml:"export_tags"`
	TagFormat          TagFormat          `yaml:"tag_format"`
	ImportTag          string             `yaml:"import_tag"`
	ExportPDFs         bool               `yaml:"export_pdfs"`
	FileConf           FileConf           `yaml:"file_conf"`
	NotesSuffix        string             `yaml:"notes_suffix"`
	TitleSuffix        string             `yaml:"title_suffix"`
	NotesHeading       string             `yaml:"export_notes_heading"`
	CreateNotesFile    bool               `yaml:"create_notes_file"`
	CitekeyTitle       bool               `yaml:"citekey_title"`
	TranscludeMetadata bool               `yaml:"obsidian.transclude_metadata"`
	AttachToZotero     bool               `yaml:"attach_to_zotero"`
	ExportLocalLibrary bool               `yaml:"export_local_library"`
	ExportCloudLink    bool               `yaml:"export_cloud_link"`
	Directory          string             `yaml:"directory"`
}

func DefaultExport() Export {
	return Export{
		LinkStyle:          markdown.LinkStyleWiki,
		LinkDates:          true,
		ExportType:         true,
		ExportAuthors:      true,
		ExportDates:        true,
		ExportPubTitle:     true,
		ExportURLs:         true,
		ExportCitekey:      true,
		ExportCollections:  true,
		ExportRelated:      true,
		ExportTags:         true,
		TagFormat:          TagFormatInternal,
		ExportPDFs:         true,
		FileConf:           FileConfSplit,
		NotesSuffix:        "-mdnotes",
		TitleSuffix:        "-zotero",
		NotesHeading:       "## Highlights and Comments",
		CreateNotesFile:    true,
		TranscludeMetadata: true,
		ExportLocalLibrary: true,
	}
}

func (e Export) Validate() error {
	switch e.TagFormat {
	case TagFormatInternal, TagFormatHashtag:
	default:
		return fmt.Errorf("%w: tag_format must be internal or hashtag, got %q", apperrors.ErrInvalidInput, e.TagFormat)
	}
	switch e.FileConf {
	case FileConfSplit, FileConfCombined:
	default:
		return fmt.Errorf("%w: file_conf must be split or combined, got %q", apperrors.ErrInvalidInput, e.FileConf)
	}
	return nil
}

// InternalLink formats text with the configured link_style.
func (e Export) InternalLink(text string) string {
	return markdown.FormatInternalLink(text, e.LinkStyle)
}

// Split reports whether the note-per-file layout is active.
func (e Export) Split() bool {
	return e.FileConf == FileConfSplit
}
