package storage

import (
	"context"
	"errors"
)

// Store is the local key-value persistence used for session state such as
// the cart. Absence of a key is reported as ErrNotFound, never invented as
// an empty value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("storage: key not found")
