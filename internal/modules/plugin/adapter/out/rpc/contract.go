package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey          = "mdnotes"
	serviceName           = "mdnotes.plugin.v1.CitekeyPlugin"
	jsonCodecName         = "json"
	methodGetMetadata     = "/" + serviceName + "/GetMetadata"
	methodResolveCitekeys = "/" + serviceName + "/ResolveCitekeys"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MDNOTES_PLUGIN",
	MagicCookieValue: "mdnotes",
}

// Messages travel as JSON over gRPC so plugins need no generated code.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type CitekeyItem struct {
	Key     string   `json:"key"`
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Date    string   `json:"date"`
	Extra   string   `json:"extra"`
}

type ResolveCitekeysRequest struct {
	Items []CitekeyItem `json:"items"`
}

type ResolveCitekeysResponse struct {
	Citekeys map[string]string `json:"citekeys"`
}

type CitekeyPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ResolveCitekeys(ctx context.Context, in *ResolveCitekeysRequest) (*ResolveCitekeysResponse, error)
}

type CitekeyPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ResolveCitekeys(ctx context.Context, in *ResolveCitekeysRequest) (*ResolveCitekeysResponse, error)
}

type citekeyPluginClient struct {
	conn *grpc.ClientConn
}

func NewCitekeyPluginClient(conn *grpc.ClientConn) CitekeyPluginClient {
	return &citekeyPluginClient{conn: conn}
}

func (c *citekeyPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *citekeyPluginClient) ResolveCitekeys(ctx context.Context, in *ResolveCitekeysRequest) (*ResolveCitekeysResponse, error) {
	out := &ResolveCitekeysResponse{}
	if err := c.conn.Invoke(ctx, methodResolveCitekeys, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func unaryHandler[Req any](method string, call func(context.Context, *Req) (any, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCitekeyPluginServer(server grpc.ServiceRegistrar, impl CitekeyPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CitekeyPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: unaryHandler(methodGetMetadata, func(ctx context.Context, in *Empty) (any, error) {
					return impl.GetMetadata(ctx, in)
				}),
			},
			{
				MethodName: "ResolveCitekeys",
				Handler: unaryHandler(methodResolveCitekeys, func(ctx context.Context, in *ResolveCitekeysRequest) (any, error) {
					return impl.ResolveCitekeys(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "mdnotes/plugin/v1/citekey.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CitekeyPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCitekeyPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCitekeyPluginClient(conn), nil
}

func PluginMap(impl CitekeyPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
