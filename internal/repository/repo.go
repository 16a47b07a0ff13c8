// Package repository wraps record collections in typed repositories with
// indexed lookups by id and by foreign key.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alijeyrad/stgeorge_backend/internal/store"
)

var ErrNotFound = store.ErrNotFound

// Repo is a typed view of one collection.
type Repo[T store.Record] struct {
	s    *store.Store
	c    store.Collection
	keys map[Key]func(T) string
}

func NewRepo[T store.Record](s *store.Store, c store.Collection, keys map[Key]func(T) string) *Repo[T] {
	return &Repo[T]{s: s, c: c, keys: keys}
}

func (r *Repo[T]) Collection() store.Collection { return r.c }

func (r *Repo[T]) All(ctx context.Context) ([]T, error) {
	return store.GetAll[T](ctx, r.s, r.c)
}

// Snapshot loads the collection once and indexes it.
func (r *Repo[T]) Snapshot(ctx context.Context) (*Index[T], error) {
	items, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(items, r.keys), nil
}

func (r *Repo[T]) FindByID(ctx context.Context, id string) (T, error) {
	return store.FindByID[T](ctx, r.s, r.c, id)
}

func (r *Repo[T]) FindBy(ctx context.Context, k Key, value string) ([]T, error) {
	if _, ok := r.keys[k]; !ok {
		return nil, fmt.Errorf("%s: key %q is not indexed", r.c, k)
	}
	ix, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Lookup(k, value), nil
}

// FindOneBy returns the first match or ErrNotFound.
func (r *Repo[T]) FindOneBy(ctx context.Context, k Key, value string) (T, error) {
	var zero T
	matches, err := r.FindBy(ctx, k, value)
	if err != nil {
		return zero, err
	}
	if len(matches) == 0 {
		return zero, fmt.Errorf("%s by %s=%q: %w", r.c, k, value, ErrNotFound)
	}
	return matches[0], nil
}

func (r *Repo[T]) Append(ctx context.Context, rec T) ([]T, error) {
	return store.Append(ctx, r.s, r.c, rec)
}

// Update patches one record and returns it.
func (r *Repo[T]) Update(ctx context.Context, id string, patch func(*T)) (T, error) {
	var zero T
	items, err := store.UpdateByID(ctx, r.s, r.c, id, patch)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", r.c, id, ErrNotFound)
}

// Mutate gives fn an indexed view of the current records inside one atomic
// store update. fn returns the full replacement slice.
func (r *Repo[T]) Mutate(ctx context.Context, fn func(ix *Index[T]) ([]T, error)) ([]T, error) {
	return store.Mutate(ctx, r.s, r.c, func(items []T) ([]T, error) {
		return fn(NewIndex(items, r.keys))
	})
}

func (r *Repo[T]) ReplaceAll(ctx context.Context, items []T) error {
	return store.SaveAll(ctx, r.s, r.c, items)
}

// IsNotFound reports whether err means a lookup matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
