package out

import (
	"context"

	"mdnotes/internal/modules/plugin/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	ResolveCitekeys(ctx context.Context, manifest domain.Manifest, items []domain.CitekeyItem) (map[string]string, error)
}
