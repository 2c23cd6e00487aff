package usecase

import (
	"context"

	"mdnotes/internal/modules/note/dto"
	notein "mdnotes/internal/modules/note/port/in"
	"mdnotes/internal/modules/note/service"
)

type Interactor struct {
	conv *service.Converter
}

func NewInteractor(conv *service.Converter) notein.Usecase {
	return &Interactor{conv: conv}
}

func (i *Interactor) Convert(ctx context.Context, input dto.ConvertInput) (dto.NoteOutput, error) {
	if err := ctx.Err(); err != nil {
		return dto.NoteOutput{}, err
	}
	note := i.conv.Convert(input.HTML)
	return dto.NoteOutput{Title: note.Title, Content: note.Content}, nil
}

// ConvertAll keeps input order.
func (i *Interactor) ConvertAll(ctx context.Context, inputs []dto.ConvertInput) ([]dto.NoteOutput, error) {
	out := make([]dto.NoteOutput, 0, len(inputs))
	for _, input := range inputs {
		note, err := i.Convert(ctx, input)
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, nil
}
