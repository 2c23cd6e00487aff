package out

import (
	"context"

	"mdnotes/internal/modules/export/domain"
	exportout "mdnotes/internal/modules/export/port/out"
	librarydto "mdnotes/internal/modules/library/dto"
	libraryin "mdnotes/internal/modules/library/port/in"
)

type LibraryItemSource struct {
	library libraryin.Usecase
}

func NewLibraryItemSource(library libraryin.Usecase) exportout.ItemSource {
	return &LibraryItemSource{library: library}
}

func (s *LibraryItemSource) Items(ctx context.Context, selection domain.Selection) ([]domain.Item, error) {
	items, err := s.library.ListItems(ctx, librarydto.ListItemsInput{
		Keys:       selection.Keys,
		Tags:       selection.Tags,
		Collection: selection.Collection,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, toDomainItem(item))
	}
	return out, nil
}

func toDomainItem(item librarydto.ItemOutput) domain.Item {
	related := make([]domain.Related, 0, len(item.Related))
	for _, r := range item.Related {
		related = append(related, domain.Related{Title: r.Title, CitationKey: r.CitationKey})
	}
	pdfs := make([]domain.PDF, 0, len(item.PDFs))
	for _, a := range item.PDFs {
		pdfs = append(pdfs, domain.PDF{Title: a.Title, URI: a.URI})
	}
	return domain.Item{
		Key:              item.Key,
		Type:             item.Type,
		TypeLabel:        item.TypeLabel,
		Title:            item.Title,
		Authors:          item.Authors,
		Date:             item.Date,
		DateAdded:        item.DateAdded,
		PublicationTitle: item.PublicationTitle,
		URL:              item.URL,
		DOI:              item.DOI,
		Abstract:         item.Abstract,
		CitationKey:      item.CitationKey,
		CitedKeys:        item.CitedKeys,
		Tags:             item.Tags,
		Collections:      item.Collections,
		Related:          related,
		PDFs:             pdfs,
		LocalURI:         item.LocalURI,
		CloudURI:         item.CloudURI,
		Notes:            item.Notes,
	}
}
