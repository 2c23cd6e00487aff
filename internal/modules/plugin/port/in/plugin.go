package in

import (
	"context"

	"mdnotes/internal/modules/plugin/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	ResolveCitekeys(ctx context.Context, input dto.ResolveCitekeysInput) (dto.ResolveCitekeysOutput, error)
}
