package in

import (
	"context"

	"mdnotes/internal/modules/note/dto"
)

type Usecase interface {
	Convert(ctx context.Context, input dto.ConvertInput) (dto.NoteOutput, error)
	ConvertAll(ctx context.Context, inputs []dto.ConvertInput) ([]dto.NoteOutput, error)
}
