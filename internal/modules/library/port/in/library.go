package in

import (
	"context"

	"mdnotes/internal/modules/library/dto"
)

type Usecase interface {
	ListItems(ctx context.Context, input dto.ListItemsInput) ([]dto.ItemOutput, error)
	GetItem(ctx context.Context, key string) (dto.ItemOutput, error)
}
