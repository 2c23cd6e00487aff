package usecase

import (
	"context"

	"mdnotes/internal/modules/export/domain"
	"mdnotes/internal/modules/export/dto"
	exportin "mdnotes/internal/modules/export/port/in"
	"mdnotes/internal/modules/export/service"
)

type Interactor struct {
	svc *service.ExportService
}

func NewInteractor(svc *service.ExportService) exportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	selection := domain.Selection{Keys: input.Keys, Tags: input.Tags, Collection: input.Collection}
	result, err := i.svc.Run(ctx, modeOf(input.Mode), selection, input.Config, input.OutputDir)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	out := dto.ExportOutput{
		RunID:   result.RunID,
		Items:   make([]dto.ItemOutput, 0, len(result.Items)),
		Written: result.Written(),
		Failed:  result.Failed(),
	}
	for _, item := range result.Items {
		itemOut := dto.ItemOutput{Key: item.Key, Files: make([]dto.FileOutput, 0, len(item.Files))}
		if item.Err != nil {
			itemOut.Error = item.Err.Error()
		}
		for _, f := range item.Files {
			itemOut.Files = append(itemOut.Files, dto.FileOutput{Name: f.Name, Path: f.Path, Skipped: f.Skipped, Link: string(f.Link)})
		}
		out.Items = append(out.Items, itemOut)
	}
	return out, nil
}

func (i *Interactor) Render(ctx context.Context, input dto.RenderInput) ([]dto.RenderedFile, error) {
	files, err := i.svc.Render(ctx, modeOf(input.Mode), input.Key, input.Config)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RenderedFile, 0, len(files))
	for _, f := range files {
		out = append(out, dto.RenderedFile{Name: f.Name, Contents: f.Contents})
	}
	return out, nil
}

func modeOf(mode string) domain.Mode {
	if mode == "" {
		return domain.ModeBatch
	}
	return domain.Mode(mode)
}
