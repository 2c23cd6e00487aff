package service

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"mdnotes/internal/modules/library/domain"
	libraryout "mdnotes/internal/modules/library/port/out"
	apperrors "mdnotes/internal/platform/errors"
)

type ItemService struct {
	store     libraryout.ItemStore
	resolver  libraryout.CitekeyResolver
	inspector libraryout.AttachmentInspector
	logger    hclog.Logger
}

func NewItemService(store libraryout.ItemStore, resolver libraryout.CitekeyResolver, inspector libraryout.AttachmentInspector, logger hclog.Logger) *ItemService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ItemService{store: store, resolver: resolver, inspector: inspector, logger: logger}
}

// List loads the selected items with citation keys resolved and attachment
// metadata completed.
func (s *ItemService) List(ctx context.Context, selection domain.Selection) ([]domain.Item, error) {
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx, selection)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if err := s.resolveCitekeys(ctx, items); err != nil {
		return nil, err
	}
	for i := range items {
		if err := s.inspectAttachments(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, key string) (domain.Item, error) {
	items, err := s.List(ctx, domain.Selection{Keys: []string{key}})
	if err != nil {
		return domain.Item{}, err
	}
	if len(items) == 0 {
		return domain.Item{}, fmt.Errorf("item %q: %w", key, apperrors.ErrNotFound)
	}
	return items[0], nil
}

// Keys already on the item win over resolver output. Anything left empty
// renders as the undefined sentinel.
func (s *ItemService) resolveCitekeys(ctx context.Context, items []domain.Item) error {
	pending := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.CitationKey == "" {
			pending = append(pending, item)
		}
	}
	resolved := map[string]string{}
	if len(pending) > 0 && s.resolver != nil {
		out, err := s.resolver.Resolve(ctx, pending)
		if err != nil {
			return fmt.Errorf("resolve citation keys: %w", err)
		}
		resolved = out
	}

	known := make(map[string]string, len(items))
	for i := range items {
		if items[i].CitationKey == "" {
			items[i].CitationKey = resolved[items[i].Key]
		}
		if items[i].CitationKey != "" {
			known[items[i].Key] = items[i].CitationKey
		}
	}
	for i := range items {
		for j := range items[i].Related {
			if items[i].Related[j].CitationKey == "" {
				items[i].Related[j].CitationKey = known[items[i].Related[j].Key]
			}
		}
	}
	return nil
}

func (s *ItemService) inspectAttachments(ctx context.Context, item *domain.Item) error {
	if s.inspector == nil {
		return nil
	}
	for i, attachment := range item.Attachments {
		inspected, err := s.inspector.Inspect(ctx, attachment)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("attachment inspection failed", "item", item.Key, "attachment", attachment.Key, "error", err)
			continue
		}
		item.Attachments[i] = inspected
	}
	return nil
}
