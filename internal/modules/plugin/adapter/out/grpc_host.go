package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	pluginrpc "mdnotes/internal/modules/plugin/adapter/out/rpc"
	"mdnotes/internal/modules/plugin/domain"
	pluginout "mdnotes/internal/modules/plugin/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost starts a plugin process per call and kills it afterwards.
type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) pluginout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	var out domain.Metadata
	err := h.call(ctx, manifest, func(ctx context.Context, client pluginrpc.CitekeyPluginClient) error {
		meta, err := client.GetMetadata(ctx)
		if err != nil {
			return fmt.Errorf("get metadata: %w", err)
		}
		out = domain.Metadata{Name: meta.Name, Version: meta.Version}
		for _, c := range meta.Capabilities {
			out.Capabilities = append(out.Capabilities, domain.Capability(c))
		}
		return nil
	})
	return out, err
}

func (h *GRPCHost) ResolveCitekeys(ctx context.Context, manifest domain.Manifest, items []domain.CitekeyItem) (map[string]string, error) {
	request := &pluginrpc.ResolveCitekeysRequest{Items: make([]pluginrpc.CitekeyItem, len(items))}
	for i, item := range items {
		request.Items[i] = pluginrpc.CitekeyItem(item)
	}
	keys := map[string]string{}
	err := h.call(ctx, manifest, func(ctx context.Context, client pluginrpc.CitekeyPluginClient) error {
		response, err := client.ResolveCitekeys(ctx, request)
		if err != nil {
			return fmt.Errorf("resolve citekeys: %w", err)
		}
		for k, v := range response.Citekeys {
			keys[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.logger.Debug("citekeys resolved", "plugin", manifest.Name, "requested", len(items), "resolved", len(keys))
	return keys, nil
}

// call runs fn against a freshly started plugin process. Without a caller
// deadline the call is bounded by defaultCallTimeout; running out of time is
// reported as ErrPluginTimeout.
func (h *GRPCHost) call(ctx context.Context, manifest domain.Manifest, fn func(context.Context, pluginrpc.CitekeyPluginClient) error) error {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, defaultCallTimeout)
		defer cancel()
	}
	if err := fn(callCtx, client); err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", domain.ErrPluginTimeout, manifest.Name)
		}
		return err
	}
	return nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (pluginrpc.CitekeyPluginClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          pluginrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(pluginrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(pluginrpc.CitekeyPluginClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}
