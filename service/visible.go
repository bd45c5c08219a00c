package service

import (
	"context"

	"github.com/hugr-lab/gridfilter/auth"
	"github.com/hugr-lab/gridfilter/catalog"
)

// visibleCatalog hides the entities the caller may not filter.
type visibleCatalog struct {
	catalog catalog.Catalog
	auth    auth.Authenticator
}

// visibleTo wraps cat so that listing and lookup honor per-entity
// authorization. Without an authenticator cat is returned unchanged.
func visibleTo(cat catalog.Catalog, authenticator auth.Authenticator) catalog.Catalog {
	if authenticator == nil {
		return cat
	}
	if _, ok := authenticator.(auth.EntityAuthorizer); !ok {
		return cat
	}
	return &visibleCatalog{catalog: cat, auth: authenticator}
}

func (v *visibleCatalog) Entities(ctx context.Context) ([]catalog.Entity, error) {
	entities, err := v.catalog.Entities(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]catalog.Entity, 0, len(entities))
	for _, e := range entities {
		if auth.AuthorizeEntity(ctx, v.auth, e.Name()) == nil {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

func (v *visibleCatalog) Entity(ctx context.Context, name string) (catalog.Entity, error) {
	e, err := v.catalog.Entity(ctx, name)
	if err != nil || e == nil {
		return e, err
	}
	if auth.AuthorizeEntity(ctx, v.auth, e.Name()) != nil {
		return nil, nil
	}
	return e, nil
}
