package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// Record is anything stored in a collection.
type Record interface {
	RecordID() string
}

func decode[T any](data []byte) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetAll returns every record of a collection, or an empty slice.
func GetAll[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	ctx, span := s.startSpan(ctx, "get_all", string(c))
	defer span.End()

	data, err := s.backend.Load(ctx, string(c))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	items, err := decode[T](data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return items, nil
}

// SaveAll replaces the whole collection.
func SaveAll[T any](ctx context.Context, s *Store, c Collection, items []T) error {
	ctx, span := s.startSpan(ctx, "save_all", string(c))
	defer span.End()

	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := s.backend.Save(ctx, string(c), data); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

// FindByID scans the collection for id.
func FindByID[T Record](ctx context.Context, s *Store, c Collection, id string) (T, error) {
	var zero T
	items, err := GetAll[T](ctx, s, c)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", c, id, ErrNotFound)
}

// Mutate runs fn over the collection inside one atomic backend update and
// returns what fn produced. An error from fn aborts the write.
func Mutate[T any](ctx context.Context, s *Store, c Collection, fn func([]T) ([]T, error)) ([]T, error) {
	ctx, span := s.startSpan(ctx, "mutate", string(c))
	defer span.End()

	var out []T
	err := s.backend.Update(ctx, string(c), func(cur []byte) ([]byte, error) {
		items, err := decode[T](cur)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c, err)
		}
		next, err := fn(items)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		out = next
		return json.Marshal(next)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

// Append adds rec to the end of the collection and returns the new sequence.
func Append[T any](ctx context.Context, s *Store, c Collection, rec T) ([]T, error) {
	return Mutate(ctx, s, c, func(items []T) ([]T, error) {
		return append(items, rec), nil
	})
}

// UpdateByID applies patch to the record with the given id and returns the
// full updated sequence. When no record matches nothing is written and
// ErrNotFound is returned.
func UpdateByID[T Record](ctx context.Context, s *Store, c Collection, id string, patch func(*T)) ([]T, error) {
	return Mutate(ctx, s, c, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].RecordID() == id {
				patch(&items[i])
				return items, nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", c, id, ErrNotFound)
	})
}

// GetValue loads a single JSON value stored outside the collections.
func GetValue[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var v T
	data, err := s.backend.Load(ctx, key)
	if err != nil {
		return v, false, fmt.Errorf("load %s: %w", key, err)
	}
	if len(data) == 0 || string(data) == "null" {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}

func PutValue[T any](ctx context.Context, s *Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// MutateValue is an atomic read-modify-write of a single value. fn receives
// the zero value when the key is absent.
func MutateValue[T any](ctx context.Context, s *Store, key string, fn func(T) (T, error)) (T, error) {
	var out T
	err := s.backend.Update(ctx, key, func(cur []byte) ([]byte, error) {
		var v T
		if len(cur) > 0 && string(cur) != "null" {
			if err := json.Unmarshal(cur, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		next, err := fn(v)
		if err != nil {
			return nil, err
		}
		out = next
		return json.Marshal(next)
	})
	return out, err
}

func DeleteValue(ctx context.Context, s *Store, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
