package gridfilter

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/gridfilter/auth"
	"github.com/hugr-lab/gridfilter/internal/recovery"
	"github.com/hugr-lab/gridfilter/internal/requestid"
	"github.com/hugr-lab/gridfilter/service"
)

// NewServer registers the predicate compile service on the provided gRPC server.
// This is the main entry point for the gridfilter package.
//
// The function:
//  1. Validates the Config
//  2. Creates the compiler and service implementation
//  3. Registers it on grpcServer
//
// Returns error if config is invalid (e.g., nil Catalog).
// Does NOT start the gRPC server - user controls lifecycle via grpcServer.Serve().
//
// Interceptors for panic recovery, request IDs and authentication are
// installed through ServerOptions:
//
//	config := gridfilter.Config{
//	    Catalog: cat,
//	    Auth:    gridfilter.BearerAuth(validateToken),
//	}
//	grpcServer := grpc.NewServer(gridfilter.ServerOptions(config)...)
//	if err := gridfilter.NewServer(grpcServer, config); err != nil {
//	    log.Fatal(err)
//	}
//	lis, _ := net.Listen("tcp", ":50052")
//	grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	allocator := config.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	logger := newLogger(config)

	compiler := service.NewCompiler(config.Catalog, config.Auth, logger)
	service.Register(grpcServer, service.NewServer(compiler, config.Catalog, allocator, logger))

	logger.Info("Predicate compile service registered",
		"service", service.ServiceName,
		"has_auth", config.Auth != nil,
		"max_message_size", config.MaxMessageSize,
	)

	return nil
}

// ServerOptions returns gRPC server options for the compile service:
// panic recovery, request ID propagation, authentication when config.Auth
// is set, and message size limits.
//
// Example:
//
//	opts := gridfilter.ServerOptions(config)
//	grpcServer := grpc.NewServer(opts...)
//	gridfilter.NewServer(grpcServer, config)
func ServerOptions(config Config) []grpc.ServerOption {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(unaryInterceptors(config)...),
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}

// unaryInterceptors returns the interceptor chain in call order. Panics
// are logged with the same logger NewServer uses.
func unaryInterceptors(config Config) []grpc.UnaryServerInterceptor {
	interceptors := []grpc.UnaryServerInterceptor{
		recovery.UnaryServerInterceptor(newLogger(config)),
		requestid.UnaryServerInterceptor(),
	}
	if config.Auth != nil {
		interceptors = append(interceptors, auth.UnaryServerInterceptor(config.Auth))
	}
	return interceptors
}
