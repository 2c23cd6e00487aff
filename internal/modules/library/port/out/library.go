package out

import (
	"context"

	"mdnotes/internal/modules/library/domain"
)

// ItemStore reads items from a reference library. Stores are read-only.
type ItemStore interface {
	List(ctx context.Context, selection domain.Selection) ([]domain.Item, error)
}

// CitekeyResolver maps item keys to citation keys. Items it cannot resolve
// are absent from the result.
type CitekeyResolver interface {
	Resolve(ctx context.Context, items []domain.Item) (map[string]string, error)
}

// AttachmentInspector completes attachment metadata from the file itself.
type AttachmentInspector interface {
	Inspect(ctx context.Context, attachment domain.Attachment) (domain.Attachment, error)
}
