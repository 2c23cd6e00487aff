package service

import (
	"sort"
	"strings"

	"mdnotes/internal/modules/export/domain"
	"mdnotes/internal/platform/config"
	"mdnotes/internal/platform/markdown"
)

const metadataHeading = "# Metadata\n"

// BuildMetadata renders the metadata table of item. It reads item fields and
// cfg only, never note content.
func BuildMetadata(item domain.Item, cfg config.Export) string {
	var b strings.Builder
	b.WriteString(metadataHeading)
	b.WriteString(markdown.TableRow("Title", item.Title))
	b.WriteString("| --: | :-- |\n")

	if cfg.ExportType && item.TypeLabel != "" {
		b.WriteString(markdown.TableRow("Type", typeCell(item.TypeLabel, cfg)))
	}
	if cfg.ExportAuthors && len(item.Authors) > 0 {
		b.WriteString(markdown.TableRow("Authors", joinLinks(item.Authors, cfg)))
	}
	if cfg.ExportDates {
		b.WriteString(markdown.TableRow("Date", dateCell(item.Date, cfg)))
		if !item.DateAdded.IsZero() {
			b.WriteString(markdown.TableRow("Date added", dateCell(item.DateAdded.Local().Format("2006-01-02"), cfg)))
		}
	}
	if cfg.ExportPubTitle && item.PublicationTitle != "" {
		b.WriteString(markdown.TableRow("Publication", cfg.InternalLink(item.PublicationTitle)))
	}
	if cfg.ExportURLs {
		if item.DOI != "" {
			b.WriteString(markdown.TableRow("DOI", markdown.Link(item.DOI, item.DOI)))
		}
		if item.URL != "" {
			b.WriteString(markdown.TableRow("URL", item.URL))
		}
	}
	if cfg.ExportCitekey {
		b.WriteString(markdown.TableRow("Cite key", "`"+item.CitationKey+"`"))
	}
	if cfg.ExportCollections && len(item.Collections) > 0 {
		b.WriteString(markdown.TableRow("Topics", joinLinks(item.Collections, cfg)))
	}
	if cfg.ExportRelated && len(item.Related) > 0 {
		b.WriteString(markdown.TableRow("Related", relatedCell(item.Related, cfg)))
	}
	if len(item.CitedKeys) > 0 {
		b.WriteString(markdown.TableRow("Cites", joinLinks(item.CitedKeys, cfg)))
	}
	if cfg.ExportTags {
		b.WriteString(markdown.TableRow("Tags", tagsCell(item.Tags, cfg)))
	}
	if !cfg.Split() {
		if links := zoteroLinksCell(item, cfg); links != "" {
			b.WriteString(markdown.TableRow("Zotero links", links))
		}
	}
	if cfg.ExportPDFs && len(item.PDFs) > 0 {
		b.WriteString(markdown.TableRow("PDF Attachments", pdfCell(item.PDFs)))
	}
	return b.String()
}

func typeCell(label string, cfg config.Export) string {
	if !cfg.LinkType {
		return label
	}
	if tag, ok := markdown.Hashtag(label); ok {
		return tag
	}
	return label
}

func dateCell(date string, cfg config.Export) string {
	if !cfg.LinkDates {
		return date
	}
	return cfg.InternalLink(date)
}

func joinLinks(values []string, cfg config.Export) string {
	links := make([]string, 0, len(values))
	for _, v := range values {
		links = append(links, cfg.InternalLink(v))
	}
	return strings.Join(links, ", ")
}

func relatedCell(related []domain.Related, cfg config.Export) string {
	links := make([]string, 0, len(related))
	for _, r := range related {
		if cfg.CitekeyTitle {
			links = append(links, cfg.InternalLink(r.CitationKey))
			continue
		}
		links = append(links, cfg.InternalLink(r.Title))
	}
	return strings.Join(links, ", ")
}

// The import tag is taken verbatim and sorted together with the item tags.
func tagsCell(tags []string, cfg config.Export) string {
	out := make([]string, 0, len(tags)+1)
	if cfg.ImportTag != "" {
		out = append(out, cfg.ImportTag)
	}
	for _, tag := range tags {
		if cfg.TagFormat == config.TagFormatHashtag {
			hashtag, ok := markdown.Hashtag(tag)
			if !ok {
				continue
			}
			out = append(out, hashtag)
			continue
		}
		out = append(out, cfg.InternalLink(tag))
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

func zoteroLinksCell(item domain.Item, cfg config.Export) string {
	links := []string{}
	if cfg.ExportLocalLibrary && item.LocalURI != "" {
		links = append(links, markdown.Link("Local library", item.LocalURI))
	}
	if cfg.ExportCloudLink && item.CloudURI != "" {
		links = append(links, markdown.Link("Cloud library", item.CloudURI))
	}
	return strings.Join(links, ", ")
}

func pdfCell(pdfs []domain.PDF) string {
	links := make([]string, 0, len(pdfs))
	for _, pdf := range pdfs {
		links = append(links, markdown.Link(pdf.Title, pdf.URI))
	}
	return strings.Join(links, ", ")
}
