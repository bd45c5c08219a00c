// Package service exposes the predicate compiler as a gRPC service.
//
// The service is gridfilter.v1.PredicateCompiler. Messages are plain Go
// structs carried with the MessagePack codec registered by this package,
// so clients must call with grpc.CallContentSubtype(CodecName); Client
// does this for you.
package service

import (
	"context"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/gridfilter/catalog"
	"github.com/hugr-lab/gridfilter/internal/serialize"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gridfilter.v1.PredicateCompiler"

const (
	compileMethod         = "/" + ServiceName + "/Compile"
	compileBatchMethod    = "/" + ServiceName + "/CompileBatch"
	describeCatalogMethod = "/" + ServiceName + "/DescribeCatalog"
)

// PredicateCompilerServer is the server API of the compile service.
type PredicateCompilerServer interface {
	Compile(context.Context, *CompileRequest) (*CompileResponse, error)
	CompileBatch(context.Context, *CompileBatchRequest) (*CompileBatchResponse, error)
	DescribeCatalog(context.Context, *DescribeCatalogRequest) (*DescribeCatalogResponse, error)
}

// Server implements PredicateCompilerServer on top of a Compiler.
type Server struct {
	compiler  *Compiler
	catalog   catalog.Catalog
	allocator memory.Allocator
	logger    *slog.Logger
}

// NewServer creates the compile service.
func NewServer(compiler *Compiler, cat catalog.Catalog, allocator memory.Allocator, logger *slog.Logger) *Server {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		compiler:  compiler,
		catalog:   cat,
		allocator: allocator,
		logger:    logger,
	}
}

// Register registers the compile service on the provided gRPC server.
func Register(registrar grpc.ServiceRegistrar, srv PredicateCompilerServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

// Compile implements PredicateCompilerServer.
func (s *Server) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	resp, err := s.compiler.CompileRequest(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

// CompileBatch implements PredicateCompilerServer.
func (s *Server) CompileBatch(ctx context.Context, req *CompileBatchRequest) (*CompileBatchResponse, error) {
	responses, err := s.compiler.CompileBatch(ctx, req.Requests)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CompileBatchResponse{Responses: responses}, nil
}

// DescribeCatalog implements PredicateCompilerServer. Entities the caller
// may not filter are left out.
func (s *Server) DescribeCatalog(ctx context.Context, req *DescribeCatalogRequest) (*DescribeCatalogResponse, error) {
	data, err := serialize.SerializeCatalog(ctx, visibleTo(s.catalog, s.compiler.auth), s.allocator)
	if err != nil {
		s.logger.Error("Failed to serialize catalog", "error", err)
		return nil, toStatus(err)
	}

	resp := &DescribeCatalogResponse{Catalog: data}
	if req.Compress {
		compressed, err := serialize.CompressCatalog(data)
		if err != nil {
			return nil, toStatus(err)
		}
		resp.Catalog = compressed
		resp.Compressed = true
	}

	s.logger.Debug("Catalog described",
		"size", len(resp.Catalog),
		"compressed", resp.Compressed,
	)
	return resp, nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PredicateCompilerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compile", Handler: compileHandler},
		{MethodName: "CompileBatch", Handler: compileBatchHandler},
		{MethodName: "DescribeCatalog", Handler: describeCatalogHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gridfilter/v1/compiler",
}

func compileHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredicateCompilerServer).Compile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: compileMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredicateCompilerServer).Compile(ctx, req.(*CompileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func compileBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompileBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredicateCompilerServer).CompileBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: compileBatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredicateCompilerServer).CompileBatch(ctx, req.(*CompileBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func describeCatalogHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DescribeCatalogRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredicateCompilerServer).DescribeCatalog(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: describeCatalogMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredicateCompilerServer).DescribeCatalog(ctx, req.(*DescribeCatalogRequest))
	}
	return interceptor(ctx, in, info, handler)
}
