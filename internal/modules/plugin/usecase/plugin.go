package usecase

import (
	"context"

	"mdnotes/internal/modules/plugin/dto"
	pluginin "mdnotes/internal/modules/plugin/port/in"
	"mdnotes/internal/modules/plugin/service"
)

type Interactor struct {
	svc *service.PluginService
}

func NewInteractor(svc *service.PluginService) pluginin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) ResolveCitekeys(ctx context.Context, input dto.ResolveCitekeysInput) (dto.ResolveCitekeysOutput, error) {
	return i.svc.ResolveCitekeys(ctx, input)
}
