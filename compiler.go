package gridfilter

import (
	"fmt"

	"github.com/hugr-lab/gridfilter/service"
)

// Compiler compiles grid filter state against catalog entities.
// This is re-exported from the service package for convenience.
type Compiler = service.Compiler

// NewCompiler creates an in-process compiler for config.
//
// Example:
//
//	c, err := gridfilter.NewCompiler(gridfilter.Config{Catalog: cat})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := c.Compile(ctx, "orders", state)
func NewCompiler(config Config) (*Compiler, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return service.NewCompiler(config.Catalog, config.Auth, newLogger(config)), nil
}
