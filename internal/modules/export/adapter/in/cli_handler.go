package in

import (
	"context"

	"mdnotes/internal/modules/export/dto"
	exportin "mdnotes/internal/modules/export/port/in"
	"mdnotes/internal/platform/config"
)

type CLIHandler struct {
	usecase exportin.Usecase
}

func NewCLIHandler(usecase exportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, mode string, keys, tags []string, collection string, cfg config.Export, outputDir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{
		Mode:       mode,
		Keys:       keys,
		Tags:       tags,
		Collection: collection,
		Config:     cfg,
		OutputDir:  outputDir,
	})
}

func (h CLIHandler) Render(ctx context.Context, mode, key string, cfg config.Export) ([]dto.RenderedFile, error) {
	return h.usecase.Render(ctx, dto.RenderInput{Mode: mode, Key: key, Config: cfg})
}
