// Package gridfilter compiles the filter state of data grid controls into
// predicate expressions for a Dynamic-LINQ style query evaluator.
//
// A grid reports one filter descriptor per column: a property path, one or
// two operator/value pairs and a combinator. The compiler resolves each path
// against a typed entity, renders values as typed literals, maps operators
// to expression syntax and joins the column predicates into one text:
//
//	(Age >= 18 and Age <= 65) and (Name == null ? "" : Name).StartsWith("A")
//
// An empty result means "no filtering". Any invalid column fails the whole
// compilation; no partial predicate is ever returned.
//
// # Quick Start
//
//	cat, err := gridfilter.NewCatalogBuilder().
//	    Entity("people").
//	        Property("Name", predicate.Property{Type: predicate.TypeString, Nullable: true}).
//	        Property("Age", predicate.Property{Type: predicate.TypeInteger}).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	compiler, err := gridfilter.NewCompiler(gridfilter.Config{Catalog: cat})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := compiler.Compile(ctx, "people", grid.State{
//	    Columns: []grid.Column{{Field: "Age", Operator: ">=", Value: 18}},
//	})
//
// # Architecture
//
//   - predicate: the pure compiler (literal renderer, operator resolver,
//     descriptor normalizer, column builder, aggregator)
//   - catalog: entities that resolve property paths to declared types,
//     built from Arrow schemas or explicit property maps
//   - grid: wire shapes of grid filter state (JSON, MessagePack, zstd)
//   - service: the gRPC compile service and its client
//   - auth: bearer token authentication and entity authorization
//
// # Server Lifecycle
//
// NewServer registers the compile service on a user-provided grpc.Server
// but does NOT manage server lifecycle (start/stop/listen). Use
// ServerOptions to install the recovery, request ID and auth interceptors:
//
//	config := gridfilter.Config{Catalog: cat, Auth: gridfilter.StaticTokens(tokens)}
//	grpcServer := grpc.NewServer(gridfilter.ServerOptions(config)...)
//	gridfilter.NewServer(grpcServer, config)
//
// Clients use service.NewClient, which selects the MessagePack codec.
//
// # Logging
//
// The package logs through log/slog. Registration is logged at Info,
// individual compilations at Debug.
package gridfilter
