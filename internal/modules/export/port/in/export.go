package in

import (
	"context"

	"mdnotes/internal/modules/export/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Render(ctx context.Context, input dto.RenderInput) ([]dto.RenderedFile, error)
}
