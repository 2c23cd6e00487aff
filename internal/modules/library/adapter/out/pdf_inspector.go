package out

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	"mdnotes/internal/modules/library/domain"
	libraryout "mdnotes/internal/modules/library/port/out"
)

// PDFInspector detects PDF attachments whose content type the store left
// blank and titles untitled PDFs from their Info dictionary.
type PDFInspector struct{}

func NewPDFInspector() libraryout.AttachmentInspector {
	return &PDFInspector{}
}

var pdfMagic = []byte("%PDF-")

func (p *PDFInspector) Inspect(ctx context.Context, attachment domain.Attachment) (domain.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return attachment, err
	}
	if attachment.Path == "" {
		return attachment, nil
	}
	if attachment.ContentType == "" {
		if !hasPDFMagic(attachment.Path) {
			return attachment, nil
		}
		attachment.ContentType = domain.ContentTypePDF
	}
	if !attachment.IsPDF() || strings.TrimSpace(attachment.Title) != "" {
		return attachment, nil
	}

	attachment.Title = strings.TrimSuffix(filepath.Base(attachment.Path), filepath.Ext(attachment.Path))
	doc, err := pdf.Open(attachment.Path)
	if err != nil {
		return attachment, nil
	}
	if title := strings.TrimSpace(doc.Trailer().Key("Info").Key("Title").Text()); title != "" {
		attachment.Title = title
	}
	return attachment, nil
}

func hasPDFMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	head := make([]byte, len(pdfMagic))
	if _, err := f.Read(head); err != nil {
		return false
	}
	return bytes.Equal(head, pdfMagic)
}
