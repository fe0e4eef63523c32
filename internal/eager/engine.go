package eager

import (
	"context"
	"fmt"

	"eager-graphql/internal/trail"
)

// ToOne describes an association where each parent references at most one child.
// ForeignKey returns the parent's reference and false when it is null. Load
// fetches every child for the given keys in one round trip. Nested, when set,
// eager-loads the children's own associations.
type ToOne[P any, C any, K comparable] struct {
	Field      string
	ForeignKey func(P) (K, bool)
	Load       func(ctx context.Context, keys []K) ([]C, error)
	Key        func(C) K
	Slot       func(P) *One[C]
	Nested     func(ctx context.Context, children []C, sub trail.Trail) error
}

// ToMany describes an association where each parent owns a list of children.
// ForeignKey returns the child's reference to its parent.
type ToMany[P any, C any, K comparable] struct {
	Field      string
	ParentKey  func(P) K
	Load       func(ctx context.Context, keys []K) ([]C, error)
	ForeignKey func(C) (K, bool)
	Slot       func(P) *Many[C]
	Nested     func(ctx context.Context, children []C, sub trail.Trail) error
}

// LoadToOne populates the association on every parent when the trail walks it.
// Parents whose reference is null, or matches no row, get the zero child.
func LoadToOne[P any, C any, K comparable](ctx context.Context, parents []P, tr trail.Trail, assoc ToOne[P, C, K]) error {
	sub := tr.Field(assoc.Field)
	if !sub.Walked() || len(parents) == 0 {
		return nil
	}

	keys := make([]K, 0, len(parents))
	seen := make(map[K]struct{}, len(parents))
	for _, parent := range parents {
		key, ok := assoc.ForeignKey(parent)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	var children []C
	if len(keys) > 0 {
		var err error
		children, err = assoc.Load(ctx, keys)
		observeBatch(ctx, assoc.Field, len(parents), len(keys), len(children))
		if err != nil {
			return failOne(parents, assoc.Slot, assoc.Field, err)
		}
		if assoc.Nested != nil && len(children) > 0 {
			if err := assoc.Nested(ctx, children, sub); err != nil {
				return failOne(parents, assoc.Slot, assoc.Field, err)
			}
		}
	}

	byKey := make(map[K]C, len(children))
	for _, child := range children {
		byKey[assoc.Key(child)] = child
	}
	for _, parent := range parents {
		var child C
		if key, ok := assoc.ForeignKey(parent); ok {
			child = byKey[key]
		}
		assoc.Slot(parent).Set(child)
	}
	return nil
}

// LoadToMany populates the association on every parent when the trail walks it.
// Children keep the order Load returned them in.
func LoadToMany[P any, C any, K comparable](ctx context.Context, parents []P, tr trail.Trail, assoc ToMany[P, C, K]) error {
	sub := tr.Field(assoc.Field)
	if !sub.Walked() || len(parents) == 0 {
		return nil
	}

	keys := make([]K, 0, len(parents))
	seen := make(map[K]struct{}, len(parents))
	for _, parent := range parents {
		key := assoc.ParentKey(parent)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	children, err := assoc.Load(ctx, keys)
	observeBatch(ctx, assoc.Field, len(parents), len(keys), len(children))
	if err != nil {
		return failMany(parents, assoc.Slot, assoc.Field, err)
	}
	if assoc.Nested != nil && len(children) > 0 {
		if err := assoc.Nested(ctx, children, sub); err != nil {
			return failMany(parents, assoc.Slot, assoc.Field, err)
		}
	}

	grouped := make(map[K][]C, len(keys))
	for _, child := range children {
		key, ok := assoc.ForeignKey(child)
		if !ok {
			continue
		}
		grouped[key] = append(grouped[key], child)
	}
	for _, parent := range parents {
		assoc.Slot(parent).Set(grouped[assoc.ParentKey(parent)])
	}
	return nil
}

func failOne[P any, C any](parents []P, slot func(P) *One[C], field string, err error) error {
	for _, parent := range parents {
		slot(parent).Fail(err)
	}
	return fmt.Errorf("eager load %s: %w", field, err)
}

func failMany[P any, C any](parents []P, slot func(P) *Many[C], field string, err error) error {
	for _, parent := range parents {
		slot(parent).Fail(err)
	}
	return fmt.Errorf("eager load %s: %w", field, err)
}
