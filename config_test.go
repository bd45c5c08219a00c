package gridfilter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/gridfilter/catalog"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"missing catalog", Config{}, true},
		{"negative message size", Config{Catalog: catalog.NewStaticCatalog(), MaxMessageSize: -1}, true},
		{"minimal", Config{Catalog: catalog.NewStaticCatalog()}, false},
		{"with auth", Config{Catalog: catalog.NewStaticCatalog(), Auth: NoAuth(), MaxMessageSize: 1 << 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewCompilerInvalidConfig(t *testing.T) {
	if _, err := NewCompiler(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if err := NewServer(grpc.NewServer(), Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	custom := slog.Default()
	if got := newLogger(Config{Logger: custom}); got != custom {
		t.Error("expected configured logger to be used")
	}

	debug := slog.LevelDebug
	logger := newLogger(Config{LogLevel: &debug})
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level to be enabled")
	}

	logger = newLogger(Config{})
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level to be disabled by default")
	}
}

func TestServerOptions(t *testing.T) {
	base := ServerOptions(Config{})
	if len(base) != 1 {
		t.Errorf("expected 1 option, got %d", len(base))
	}

	full := ServerOptions(Config{Auth: NoAuth(), MaxMessageSize: 16 << 20})
	if len(full) != 3 {
		t.Errorf("expected 3 options, got %d", len(full))
	}
}

func TestUnaryInterceptorsLogPanics(t *testing.T) {
	var buf bytes.Buffer
	saved := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = saved })

	level := slog.LevelWarn
	interceptors := unaryInterceptors(Config{LogLevel: &level, Auth: NoAuth()})
	if len(interceptors) != 3 {
		t.Fatalf("expected 3 interceptors, got %d", len(interceptors))
	}

	info := &grpc.UnaryServerInfo{FullMethod: "/gridfilter.v1.PredicateCompiler/Compile"}
	_, err := interceptors[0](context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		panic("catalog exploded")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal, got %v", err)
	}
	if !strings.Contains(buf.String(), "catalog exploded") {
		t.Errorf("expected panic to be logged by the configured logger, got '%s'", buf.String())
	}
}
