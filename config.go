package gridfilter

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/gridfilter/auth"
	"github.com/hugr-lab/gridfilter/catalog"
	"github.com/hugr-lab/gridfilter/service"
)

// Config contains configuration for the predicate compiler and its
// gRPC service.
type Config struct {
	// Catalog resolves entity names to typed property accessors.
	// REQUIRED: MUST NOT be nil.
	Catalog catalog.Catalog

	// Auth provides authentication logic.
	// OPTIONAL: If nil, no authentication (all requests allowed).
	// If it also implements auth.EntityAuthorizer, every compile request is
	// authorized against the target entity.
	Auth auth.Authenticator

	// Allocator for Arrow memory used by catalog descriptions.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: If nil, a text logger on stderr is created at LogLevel.
	Logger *slog.Logger

	// LogLevel sets the logging level of the created logger.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// MaxMessageSize sets maximum gRPC message size in bytes.
	// OPTIONAL: If 0, uses gRPC default (4MB).
	MaxMessageSize int
}

// Standard errors returned by gridfilter package.
var (
	// ErrUnauthorized indicates authentication failed.
	// Return this from Authenticator.Authenticate() for invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrEntityNotFound indicates the catalog has no entity of the
	// requested name.
	ErrEntityNotFound = service.ErrEntityNotFound
)

// validateConfig checks that required Config fields are valid.
func validateConfig(config Config) error {
	if config.Catalog == nil {
		return errors.New("catalog is required")
	}
	if config.MaxMessageSize < 0 {
		return errors.New("max message size cannot be negative")
	}
	return nil
}

// newLogger returns the configured logger or creates one at LogLevel.
// logOutput receives the default logger's records.
var logOutput io.Writer = os.Stderr

func newLogger(config Config) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	level := slog.LevelInfo
	if config.LogLevel != nil {
		level = *config.LogLevel
	}
	return slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))
}
