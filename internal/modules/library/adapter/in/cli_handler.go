package in

import (
	"context"

	"mdnotes/internal/modules/library/dto"
	libraryin "mdnotes/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListItems(ctx context.Context, keys, tags []string, collection string) ([]dto.ItemOutput, error) {
	return h.usecase.ListItems(ctx, dto.ListItemsInput{Keys: keys, Tags: tags, Collection: collection})
}

func (h CLIHandler) GetItem(ctx context.Context, key string) (dto.ItemOutput, error) {
	return h.usecase.GetItem(ctx, key)
}
