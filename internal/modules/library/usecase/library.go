package usecase

import (
	"context"

	"mdnotes/internal/modules/library/domain"
	"mdnotes/internal/modules/library/dto"
	libraryin "mdnotes/internal/modules/library/port/in"
	"mdnotes/internal/modules/library/service"
)

type Interactor struct {
	svc *service.ItemService
}

func NewInteractor(svc *service.ItemService) libraryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ListItems(ctx context.Context, input dto.ListItemsInput) ([]dto.ItemOutput, error) {
	items, err := i.svc.List(ctx, domain.Selection{Keys: input.Keys, Tags: input.Tags, Collection: input.Collection})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toOutput(item))
	}
	return out, nil
}

func (i *Interactor) GetItem(ctx context.Context, key string) (dto.ItemOutput, error) {
	item, err := i.svc.Get(ctx, key)
	if err != nil {
		return dto.ItemOutput{}, err
	}
	return toOutput(item), nil
}

func toOutput(item domain.Item) dto.ItemOutput {
	label, _ := domain.TypeLabel(item.Type)
	related := make([]dto.RelatedOutput, 0, len(item.Related))
	for _, r := range item.Related {
		related = append(related, dto.RelatedOutput{Key: r.Key, Title: r.Title, CitationKey: r.Citekey()})
	}
	pdfs := []dto.AttachmentOutput{}
	for _, a := range item.PDFs() {
		pdfs = append(pdfs, dto.AttachmentOutput{Key: a.Key, Title: a.Title, ContentType: a.ContentType, Path: a.Path, URI: domain.PDFURI(a.Key)})
	}
	return dto.ItemOutput{
		Key:              item.Key,
		LibraryID:        item.LibraryID,
		Type:             item.Type,
		TypeLabel:        label,
		Title:            item.Title,
		Authors:          item.Authors,
		Date:             item.Date,
		DateAdded:        item.DateAdded,
		PublicationTitle: item.PublicationTitle,
		URL:              item.URL,
		DOI:              item.DOI,
		Abstract:         item.Abstract,
		CitationKey:      item.Citekey(),
		CitedKeys:        item.CitedKeys(),
		Tags:             item.Tags,
		Collections:      item.Collections,
		Related:          related,
		PDFs:             pdfs,
		LocalURI:         item.LocalURI(),
		CloudURI:         item.CloudURI,
		Notes:            item.Notes,
	}
}
