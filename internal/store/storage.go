package store

import (
	"context"
	"errors"
)

// ErrNoData is returned by a Storage when no blob has been persisted yet.
var ErrNoData = errors.New("no persisted data")

// Storage is the durable backend behind the store: one opaque blob holding
// the whole serialized aggregate, replaced on every write.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Reset(ctx context.Context) error
}
