package out

import (
	"context"

	"mdnotes/internal/modules/library/domain"
	libraryout "mdnotes/internal/modules/library/port/out"
)

// ExtraCitekeyResolver reads keys pinned in the extra field as
// "Citation Key: <key>".
type ExtraCitekeyResolver struct{}

func NewExtraCitekeyResolver() libraryout.CitekeyResolver {
	return ExtraCitekeyResolver{}
}

func (ExtraCitekeyResolver) Resolve(ctx context.Context, items []domain.Item) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, item := range items {
		if key, ok := domain.ExtraCitationKey(item.Extra); ok {
			out[item.Key] = key
		}
	}
	return out, nil
}

// ChainCitekeyResolver asks each resolver in turn for the items still
// unresolved.
type ChainCitekeyResolver struct {
	resolvers []libraryout.CitekeyResolver
}

func NewChainCitekeyResolver(resolvers ...libraryout.CitekeyResolver) libraryout.CitekeyResolver {
	return &ChainCitekeyResolver{resolvers: resolvers}
}

func (c *ChainCitekeyResolver) Resolve(ctx context.Context, items []domain.Item) (map[string]string, error) {
	out := map[string]string{}
	pending := items
	for _, resolver := range c.resolvers {
		if len(pending) == 0 {
			break
		}
		resolved, err := resolver.Resolve(ctx, pending)
		if err != nil {
			return nil, err
		}
		next := pending[:0:0]
		for _, item := range pending {
			if key := resolved[item.Key]; key != "" {
				out[item.Key] = key
				continue
			}
			next = append(next, item)
		}
		pending = next
	}
	return out, nil
}
