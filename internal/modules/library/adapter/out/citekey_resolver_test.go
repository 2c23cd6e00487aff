package out_test

import (
	"context"
	"errors"
	"testing"

	libraryout "mdnotes/internal/modules/library/adapter/out"
	"mdnotes/internal/modules/library/domain"
	plugindto "mdnotes/internal/modules/plugin/dto"
)

type stubResolver map[string]string

func (s stubResolver) Resolve(_ context.Context, items []domain.Item) (map[string]string, error) {
	out := map[string]string{}
	for _, item := range items {
		if key, ok := s[item.Key]; ok {
			out[item.Key] = key
		}
	}
	return out, nil
}

type fakePlugins struct {
	seen []plugindto.CitekeyItem
	err  error
}

func (f *fakePlugins) List(context.Context) ([]plugindto.PluginInfo, error)     { return nil, nil }
func (f *fakePlugins) Doctor(context.Context) ([]plugindto.DoctorResult, error) { return nil, nil }
func (f *fakePlugins) ResolveCitekeys(_ context.Context, input plugindto.ResolveCitekeysInput) (plugindto.ResolveCitekeysOutput, error) {
	if f.err != nil {
		return plugindto.ResolveCitekeysOutput{}, f.err
	}
	f.seen = append(f.seen, input.Items...)
	out := plugindto.ResolveCitekeysOutput{Citekeys: map[string]string{}}
	for _, item := range input.Items {
		out.Citekeys[item.Key] = "plugin-" + item.Key
	}
	return out, nil
}

func TestExtraCitekeyResolver(t *testing.T) {
	t.Parallel()
	keys, err := libraryout.NewExtraCitekeyResolver().Resolve(context.Background(), []domain.Item{
		{Key: "A", Extra: "Citation Key: alpha2020"},
		{Key: "B", Extra: "cites: other"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if keys["A"] != "alpha2020" || len(keys) != 1 {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestChainCitekeyResolverForwardsLeftovers(t *testing.T) {
	t.Parallel()
	plugins := &fakePlugins{}
	chain := libraryout.NewChainCitekeyResolver(
		stubResolver{"A": "alpha"},
		libraryout.NewPluginCitekeyResolver(plugins),
	)
	keys, err := chain.Resolve(context.Background(), []domain.Item{
		{Key: "A"},
		{Key: "B", Title: "Beta", Authors: []string{"Bea Author"}, Date: "2021"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if keys["A"] != "alpha" || keys["B"] != "plugin-B" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if len(plugins.seen) != 1 || plugins.seen[0].Key != "B" || plugins.seen[0].Authors[0] != "Bea Author" {
		t.Fatalf("plugin should only see B: %+v", plugins.seen)
	}
}

func TestChainCitekeyResolverPropagatesErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	chain := libraryout.NewChainCitekeyResolver(libraryout.NewPluginCitekeyResolver(&fakePlugins{err: boom}))
	if _, err := chain.Resolve(context.Background(), []domain.Item{{Key: "A"}}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
