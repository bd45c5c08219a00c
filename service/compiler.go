package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hugr-lab/gridfilter/auth"
	"github.com/hugr-lab/gridfilter/catalog"
	"github.com/hugr-lab/gridfilter/grid"
	"github.com/hugr-lab/gridfilter/internal/recovery"
	"github.com/hugr-lab/gridfilter/internal/requestid"
	"github.com/hugr-lab/gridfilter/predicate"
)

var (
	// ErrEntityNotFound is returned when the catalog has no entity with the
	// requested name.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEmptyRequest is returned for a request that names no entity.
	ErrEmptyRequest = errors.New("request names no entity")

	// ErrInvalidState is returned when saved grid state cannot be decoded.
	ErrInvalidState = errors.New("invalid grid state")
)

// Compiler resolves entities from a catalog and compiles grid state
// against them. It is safe for concurrent use.
type Compiler struct {
	catalog catalog.Catalog
	auth    auth.Authenticator
	logger  *slog.Logger

	// batchLimit bounds the goroutines of one CompileBatch call.
	batchLimit int
}

// NewCompiler creates a compiler over cat. The authenticator is consulted
// for per-entity authorization when it implements auth.EntityAuthorizer;
// it may be nil.
func NewCompiler(cat catalog.Catalog, authenticator auth.Authenticator, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		catalog:    cat,
		auth:       authenticator,
		logger:     logger,
		batchLimit: 8,
	}
}

// Compile compiles grid state against the named entity.
func (c *Compiler) Compile(ctx context.Context, entity string, state grid.State) (predicate.CompiledPredicate, error) {
	e, err := c.entity(ctx, entity)
	if err != nil {
		return predicate.CompiledPredicate{}, err
	}

	p, err := recovery.RecoverToValue(c.logger, "Compile", func() (predicate.CompiledPredicate, error) {
		set, err := predicate.Normalize(state.Request(), e)
		if err != nil {
			return predicate.CompiledPredicate{}, err
		}
		return predicate.Compile(set)
	})
	if err != nil {
		c.logger.Debug("Compile failed",
			"request_id", requestID(ctx),
			"entity", e.Name(),
			"error", err,
		)
		return predicate.CompiledPredicate{}, err
	}

	c.logger.Debug("Compiled predicate",
		"request_id", requestID(ctx),
		"entity", e.Name(),
		"columns", len(state.Columns),
		"predicate_len", len(p.Text),
	)
	return p, nil
}

// CompileSaved decodes saved grid state (see grid.DecodeState) and
// compiles it against the named entity.
func (c *Compiler) CompileSaved(ctx context.Context, entity string, data []byte) (predicate.CompiledPredicate, error) {
	state, err := grid.DecodeState(data)
	if err != nil {
		return predicate.CompiledPredicate{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return c.Compile(ctx, entity, state)
}

// CompileRequest compiles one service request.
func (c *Compiler) CompileRequest(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	if req == nil || req.Entity == "" {
		return nil, ErrEmptyRequest
	}

	var (
		p   predicate.CompiledPredicate
		err error
	)
	switch {
	case len(req.Saved) > 0:
		p, err = c.CompileSaved(ctx, req.Entity, req.Saved)
	case req.State != nil:
		p, err = c.Compile(ctx, req.Entity, *req.State)
	default:
		p, err = c.Compile(ctx, req.Entity, grid.State{})
	}
	if err != nil {
		return nil, err
	}
	return &CompileResponse{Predicate: p.Text}, nil
}

// CompileBatch compiles independent requests concurrently. The first
// failure cancels the remaining work and is returned with the index of the
// failing request; no partial result is returned.
func (c *Compiler) CompileBatch(ctx context.Context, reqs []*CompileRequest) ([]*CompileResponse, error) {
	responses := make([]*CompileResponse, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchLimit)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := c.CompileRequest(gctx, req)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// BatchError reports which request of a batch failed.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("request %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// entity looks the entity up and checks the caller may filter it.
// Catalog implementations are user code, so panics are recovered.
func (c *Compiler) entity(ctx context.Context, name string) (catalog.Entity, error) {
	if name == "" {
		return nil, ErrEmptyRequest
	}

	e, err := recovery.RecoverToValue(c.logger, "Entity", func() (catalog.Entity, error) {
		return c.catalog.Entity(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %s: %w", name, err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}

	if c.auth != nil {
		if err := auth.AuthorizeEntity(ctx, c.auth, e.Name()); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func requestID(ctx context.Context) string {
	id, _ := requestid.FromContext(ctx)
	return id
}
