package dao

import (
	"context"
)

// Service is a keyed entity store. Implementations return ErrNotFound from
// Load when the key is absent.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
