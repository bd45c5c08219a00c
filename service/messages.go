package service

import "github.com/hugr-lab/gridfilter/grid"

// CompileRequest asks for the predicate of one grid.
// Exactly one of State and Saved should be set; Saved holds grid state as
// produced by grid.EncodeState and takes precedence when non-empty.
type CompileRequest struct {
	Entity string      `msgpack:"entity"`
	State  *grid.State `msgpack:"state,omitempty"`
	Saved  []byte      `msgpack:"saved,omitempty"`
}

// CompileResponse carries the compiled predicate.
// An empty Predicate means the grid applies no filter.
type CompileResponse struct {
	Predicate string `msgpack:"predicate"`
}

// CompileBatchRequest compiles several grids in one call.
type CompileBatchRequest struct {
	Requests []*CompileRequest `msgpack:"requests"`
}

// CompileBatchResponse holds one response per request, in request order.
type CompileBatchResponse struct {
	Responses []*CompileResponse `msgpack:"responses"`
}

// DescribeCatalogRequest asks for the catalog description.
type DescribeCatalogRequest struct {
	// Compress requests a ZStandard-compressed payload.
	Compress bool `msgpack:"compress,omitempty"`
}

// DescribeCatalogResponse carries the catalog description as an Arrow IPC
// stream, one row per filterable property.
type DescribeCatalogResponse struct {
	Catalog    []byte `msgpack:"catalog"`
	Compressed bool   `msgpack:"compressed,omitempty"`
}
