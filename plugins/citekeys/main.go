package main

import (
	"context"
	"regexp"
	"strings"

	"github.com/hashicorp/go-plugin"

	librarydomain "mdnotes/internal/modules/library/domain"
	pluginrpc "mdnotes/internal/modules/plugin/adapter/out/rpc"
	"mdnotes/internal/platform/slug"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:         "citekeys",
		Version:      "1.0.0",
		Capabilities: []string{"citekey"},
	}, nil
}

// ResolveCitekeys honours keys pinned in the extra field and otherwise builds
// <lastname><year> from the first author and the date.
func (s *server) ResolveCitekeys(_ context.Context, in *pluginrpc.ResolveCitekeysRequest) (*pluginrpc.ResolveCitekeysResponse, error) {
	out := &pluginrpc.ResolveCitekeysResponse{Citekeys: map[string]string{}}
	for _, item := range in.Items {
		if key, ok := librarydomain.ExtraCitationKey(item.Extra); ok {
			out.Citekeys[item.Key] = key
			continue
		}
		if key, ok := generate(item); ok {
			out.Citekeys[item.Key] = key
		}
	}
	return out, nil
}

func generate(item pluginrpc.CitekeyItem) (string, bool) {
	if len(item.Authors) == 0 {
		return "", false
	}
	year := yearPattern.FindString(item.Date)
	if year == "" {
		return "", false
	}
	names := strings.Fields(item.Authors[0])
	if len(names) == 0 {
		return "", false
	}
	last, err := slug.Make(names[len(names)-1])
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(last, "-", "") + year, true
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
