package out

import (
	"context"

	"mdnotes/internal/modules/export/domain"
)

type ItemSource interface {
	Items(ctx context.Context, selection domain.Selection) ([]domain.Item, error)
}

type NoteConverter interface {
	ConvertNotes(ctx context.Context, bodies []string) ([]domain.Note, error)
}

type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	Write(ctx context.Context, path, contents string) error
}

// AttachmentLinker records a generated file against its item. Linking an
// already linked path only refreshes its modification time; create gates
// new links.
type AttachmentLinker interface {
	Link(ctx context.Context, runID, itemKey, path string, create bool) (domain.LinkResult, error)
}
