package service

import (
	"strings"

	"mdnotes/internal/modules/export/domain"
	"mdnotes/internal/platform/config"
	"mdnotes/internal/platform/markdown"
	"mdnotes/internal/platform/slug"
)

const notesMarker = "<!-- ↑ notes here ↑ -->"

// Assembler lays out converted notes and a metadata table as vault files.
// It performs no I/O.
type Assembler struct {
	cfg config.Export
}

func NewAssembler(cfg config.Export) Assembler {
	return Assembler{cfg: cfg}
}

// FileName is the base name shared by every file of item.
func (a Assembler) FileName(item domain.Item) string {
	if a.cfg.CitekeyTitle {
		return item.CitationKey
	}
	if a.cfg.LinkStyle == markdown.LinkStyleWiki {
		if item.Title == "" {
			return item.Key
		}
		return item.Title
	}
	name, err := slug.Make(item.Title)
	if err != nil {
		return item.Key
	}
	return name
}

func (a Assembler) CompanionName(item domain.Item) string {
	return a.FileName(item) + a.cfg.NotesSuffix
}

func (a Assembler) IndexName(item domain.Item) string {
	return a.FileName(item) + a.cfg.TitleSuffix
}

func (a Assembler) NoteName(item domain.Item, note domain.Note) string {
	return a.FileName(item) + " - " + note.Title
}

// Combined renders the single-file layout.
func (a Assembler) Combined(item domain.Item, notes []domain.Note, metadata string) domain.OutputFile {
	var b strings.Builder
	a.writeCitation(&b, item)
	if item.Abstract != "" {
		b.WriteString("\n> " + item.Abstract + "\n")
	}
	if a.cfg.CreateNotesFile {
		b.WriteString("\n# Notes\n")
		b.WriteString("\n" + notesMarker + "\n")
	}
	if len(notes) > 0 {
		b.WriteString("\n" + a.cfg.NotesHeading + "\n\n")
		for _, note := range notes {
			b.WriteString("## " + note.Title + "\n\n")
			b.WriteString(note.Content)
		}
	}
	b.WriteString("\n")
	b.WriteString(metadata)
	return domain.OutputFile{Name: a.IndexName(item), Contents: b.String()}
}

// Split renders the companion file, one file per note and the index, in
// that order.
func (a Assembler) Split(item domain.Item, notes []domain.Note, metadata string) []domain.OutputFile {
	files := make([]domain.OutputFile, 0, len(notes)+2)
	files = append(files, a.Companion(item))
	files = append(files, a.NoteFiles(item, notes)...)
	files = append(files, a.Index(item, notes, metadata))
	return files
}

// Index renders the citation header, a link per note file and the metadata.
func (a Assembler) Index(item domain.Item, notes []domain.Note, metadata string) domain.OutputFile {
	var b strings.Builder
	a.writeCitation(&b, item)
	if len(notes) > 0 {
		b.WriteString("\n" + a.cfg.NotesHeading + "\n\n")
		for _, note := range notes {
			b.WriteString("* " + a.cfg.InternalLink(a.NoteName(item, note)) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(metadata)
	return domain.OutputFile{Name: a.IndexName(item), Contents: b.String()}
}

func (a Assembler) NoteFiles(item domain.Item, notes []domain.Note) []domain.OutputFile {
	files := make([]domain.OutputFile, 0, len(notes))
	for _, note := range notes {
		files = append(files, domain.OutputFile{
			Name:     a.NoteName(item, note),
			Contents: "# " + note.Title + "\n\n" + note.Content,
		})
	}
	return files
}

// Companion renders the hand-edited note file that points at the metadata
// section of the index.
func (a Assembler) Companion(item domain.Item) domain.OutputFile {
	var b strings.Builder
	b.WriteString("# " + item.Title + "\n\n")
	if a.cfg.TranscludeMetadata {
		b.WriteString("!")
	} else {
		b.WriteString("Metadata: ")
	}
	b.WriteString(a.cfg.InternalLink(a.IndexName(item) + "#Metadata"))
	b.WriteString("\n\n## Notes\n")
	return domain.OutputFile{Name: a.CompanionName(item), Contents: b.String()}
}

func (a Assembler) writeCitation(b *strings.Builder, item domain.Item) {
	b.WriteString("# " + markdown.Link(item.Title, item.LocalURI) + "\n")
	b.WriteString(joinLinks(item.Authors, a.cfg) + ". ")
	if item.URL != "" {
		b.WriteString(markdown.Link("‘"+item.Title+"’", item.URL) + ", ")
	} else {
		b.WriteString("‘" + item.Title + "’, ")
	}
	b.WriteString(dateCell(item.Date, a.cfg) + ".\n")
}
