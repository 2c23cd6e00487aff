package service_test

import (
	"context"
	"errors"
	"testing"

	"mdnotes/internal/modules/library/domain"
	"mdnotes/internal/modules/library/service"
	apperrors "mdnotes/internal/platform/errors"
	"mdnotes/internal/platform/logging"
)

type fakeStore struct {
	items []domain.Item
}

func (s fakeStore) List(_ context.Context, selection domain.Selection) ([]domain.Item, error) {
	out := []domain.Item{}
	for _, item := range s.items {
		if selection.Matches(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeResolver struct {
	keys  map[string]string
	asked []string
}

func (r *fakeResolver) Resolve(_ context.Context, items []domain.Item) (map[string]string, error) {
	for _, item := range items {
		r.asked = append(r.asked, item.Key)
	}
	return r.keys, nil
}

type fakeInspector struct{}

func (fakeInspector) Inspect(_ context.Context, a domain.Attachment) (domain.Attachment, error) {
	if a.Path == "broken" {
		return a, errors.New("unreadable")
	}
	a.ContentType = domain.ContentTypePDF
	return a, nil
}

func TestListResolvesCitekeysAndRelated(t *testing.T) {
	t.Parallel()
	store := fakeStore{items: []domain.Item{
		{Key: "A", Related: []domain.Related{{Key: "B"}, {Key: "Z"}}},
		{Key: "B"},
		{Key: "C", CitationKey: "pinned"},
	}}
	resolver := &fakeResolver{keys: map[string]string{"B": "beta2020"}}
	svc := service.NewItemService(store, resolver, nil, logging.Discard())

	items, err := svc.List(context.Background(), domain.Selection{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resolver.asked) != 2 {
		t.Fatalf("resolver should only see unresolved items, saw %v", resolver.asked)
	}
	if items[0].Citekey() != domain.UndefinedCitekey || items[1].CitationKey != "beta2020" || items[2].CitationKey != "pinned" {
		t.Fatalf("unexpected citekeys: %+v", items)
	}
	if items[0].Related[0].Citekey() != "beta2020" || items[0].Related[1].Citekey() != domain.UndefinedCitekey {
		t.Fatalf("unexpected related citekeys: %+v", items[0].Related)
	}
}

func TestListKeepsAttachmentWhenInspectionFails(t *testing.T) {
	t.Parallel()
	store := fakeStore{items: []domain.Item{{Key: "A", Attachments: []domain.Attachment{{Key: "P1", Path: "ok.pdf"}, {Key: "P2", Path: "broken"}}}}}
	svc := service.NewItemService(store, nil, fakeInspector{}, nil)
	items, err := svc.List(context.Background(), domain.Selection{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	attachments := items[0].Attachments
	if !attachments[0].IsPDF() || attachments[1].IsPDF() {
		t.Fatalf("unexpected attachments: %+v", attachments)
	}
}

func TestListRejectsInvalidPattern(t *testing.T) {
	t.Parallel()
	svc := service.NewItemService(fakeStore{}, nil, nil, nil)
	if _, err := svc.List(context.Background(), domain.Selection{Collection: "[bad"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetMissingItem(t *testing.T) {
	t.Parallel()
	svc := service.NewItemService(fakeStore{items: []domain.Item{{Key: "A"}}}, nil, nil, nil)
	if _, err := svc.Get(context.Background(), "B"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	item, err := svc.Get(context.Background(), "A")
	if err != nil || item.Key != "A" {
		t.Fatalf("get: %+v %v", item, err)
	}
}
