// Command gridfilterd serves the predicate compile service over gRPC.
//
// Entities, tokens and listener settings come from a YAML file
// (gridfilterd.yaml in the working directory or /etc/gridfilterd, or the
// file named by --config), GRIDFILTER_* environment variables and flags.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/hugr-lab/gridfilter"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gridfilterd: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := Load(args)
	if err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	authenticator, err := cfg.Authenticator()
	if err != nil {
		return err
	}

	config := gridfilter.Config{
		Catalog:        cat,
		Auth:           authenticator,
		Logger:         logger,
		MaxMessageSize: cfg.Server.MaxMessageSize,
	}

	opts := gridfilter.ServerOptions(config)
	if cfg.Server.TLSCertFile != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)
	if err := gridfilter.NewServer(grpcServer, config); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		grpcServer.GracefulStop()
	}()

	logger.Info("Predicate compile service listening",
		"address", lis.Addr().String(),
		"entities", len(cfg.Entities),
		"tls", cfg.Server.TLSCertFile != "",
		slog.Bool("auth", authenticator != nil),
	)
	return grpcServer.Serve(lis)
}
