package services

import (
	"context"
	"fmt"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/db/repositories"
)

// EntityResolver maps names to ids for one lookup kind, creating whatever is missing.
// Bind it to the batch transaction so later lookups see rows created earlier in the batch.
type EntityResolver struct {
	catalog *repositories.CatalogRepo
	created map[repositories.EntityKind]int
}

func NewEntityResolver(catalog *repositories.CatalogRepo) *EntityResolver {
	return &EntityResolver{
		catalog: catalog,
		created: make(map[repositories.EntityKind]int),
	}
}

// ResolveAll returns an exact name -> id mapping covering every name in names
func (r *EntityResolver) ResolveAll(ctx context.Context, kind repositories.EntityKind, names []string) (map[string]uint, error) {
	unique := common.DedupeStrings(names)

	ids, err := r.catalog.FindByNames(ctx, kind, unique)
	if err != nil {
		return nil, err
	}

	for _, name := range unique {
		if name == "" {
			continue
		}
		if _, ok := ids[name]; ok {
			continue
		}

		id, err := r.catalog.Create(ctx, kind, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s %q: %w", kind, name, err)
		}
		ids[name] = id
		r.created[kind]++
	}

	return ids, nil
}

// Created reports how many rows of kind this resolver inserted
func (r *EntityResolver) Created(kind repositories.EntityKind) int {
	return r.created[kind]
}

// Lookup is the per-row step: a map read that never creates
func Lookup(ids map[string]uint, kind repositories.EntityKind, name string) (uint, error) {
	id, ok := ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrEntityNotResolved, kind, name)
	}
	return id, nil
}
