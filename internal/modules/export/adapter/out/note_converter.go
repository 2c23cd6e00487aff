package out

import (
	"context"

	"mdnotes/internal/modules/export/domain"
	exportout "mdnotes/internal/modules/export/port/out"
	notedto "mdnotes/internal/modules/note/dto"
	notein "mdnotes/internal/modules/note/port/in"
)

type NoteConverter struct {
	notes notein.Usecase
}

func NewNoteConverter(notes notein.Usecase) exportout.NoteConverter {
	return &NoteConverter{notes: notes}
}

func (c *NoteConverter) ConvertNotes(ctx context.Context, bodies []string) ([]domain.Note, error) {
	if len(bodies) == 0 {
		return nil, nil
	}
	inputs := make([]notedto.ConvertInput, 0, len(bodies))
	for _, body := range bodies {
		inputs = append(inputs, notedto.ConvertInput{HTML: body})
	}
	converted, err := c.notes.ConvertAll(ctx, inputs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Note, 0, len(converted))
	for _, n := range converted {
		out = append(out, domain.Note{Title: n.Title, Content: n.Content})
	}
	return out, nil
}
