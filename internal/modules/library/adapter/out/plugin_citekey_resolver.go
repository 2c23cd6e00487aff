package out

import (
	"context"

	"mdnotes/internal/modules/library/domain"
	libraryout "mdnotes/internal/modules/library/port/out"
	plugindto "mdnotes/internal/modules/plugin/dto"
	pluginin "mdnotes/internal/modules/plugin/port/in"
)

// PluginCitekeyResolver delegates to the enabled citekey plugins.
type PluginCitekeyResolver struct {
	plugins pluginin.Usecase
}

func NewPluginCitekeyResolver(plugins pluginin.Usecase) libraryout.CitekeyResolver {
	return &PluginCitekeyResolver{plugins: plugins}
}

func (r *PluginCitekeyResolver) Resolve(ctx context.Context, items []domain.Item) (map[string]string, error) {
	input := plugindto.ResolveCitekeysInput{Items: make([]plugindto.CitekeyItem, 0, len(items))}
	for _, item := range items {
		input.Items = append(input.Items, plugindto.CitekeyItem{
			Key:     item.Key,
			Type:    item.Type,
			Title:   item.Title,
			Authors: item.Authors,
			Date:    item.Date,
			Extra:   item.Extra,
		})
	}
	out, err := r.plugins.ResolveCitekeys(ctx, input)
	if err != nil {
		return nil, err
	}
	return out.Citekeys, nil
}
