package persist

import (
	"context"
	"errors"
)

// Storage is a string key/value store.
//
// GetItem reports ok=false for a missing key; a missing key is not an error.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

// ErrClosed is returned by backends after Close.
var ErrClosed = errors.New("persist: storage closed")
