package service

import (
	"context"

	"google.golang.org/grpc"

	"github.com/hugr-lab/gridfilter/grid"
	"github.com/hugr-lab/gridfilter/internal/requestid"
	"github.com/hugr-lab/gridfilter/internal/serialize"
)

// Client calls a remote compile service.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client on an established connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Compile returns the predicate of state for the named entity.
func (c *Client) Compile(ctx context.Context, entity string, state grid.State, opts ...grpc.CallOption) (string, error) {
	resp, err := c.CompileRequest(ctx, &CompileRequest{Entity: entity, State: &state}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Predicate, nil
}

// CompileRequest sends a raw compile request.
func (c *Client) CompileRequest(ctx context.Context, req *CompileRequest, opts ...grpc.CallOption) (*CompileResponse, error) {
	out := new(CompileResponse)
	if err := c.invoke(ctx, compileMethod, req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// CompileBatch compiles several grids in one call.
func (c *Client) CompileBatch(ctx context.Context, reqs []*CompileRequest, opts ...grpc.CallOption) ([]*CompileResponse, error) {
	out := new(CompileBatchResponse)
	if err := c.invoke(ctx, compileBatchMethod, &CompileBatchRequest{Requests: reqs}, out, opts); err != nil {
		return nil, err
	}
	return out.Responses, nil
}

// DescribeCatalog fetches the catalog description as an Arrow IPC stream,
// decompressing it when the server sent it compressed.
func (c *Client) DescribeCatalog(ctx context.Context, compress bool, opts ...grpc.CallOption) ([]byte, error) {
	out := new(DescribeCatalogResponse)
	if err := c.invoke(ctx, describeCatalogMethod, &DescribeCatalogRequest{Compress: compress}, out, opts); err != nil {
		return nil, err
	}
	if !out.Compressed {
		return out.Catalog, nil
	}

	codec, err := serialize.NewCodec()
	if err != nil {
		return nil, err
	}
	defer codec.Close()
	return codec.Decompress(out.Catalog)
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.conn.Invoke(requestid.Outgoing(ctx), method, in, out, opts...)
}
