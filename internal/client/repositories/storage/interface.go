package storage

import (
	"context"
)

// Store is the key/value session storage shared by the token store, the
// session bootstrap and the route guard. Values are strings, the same shape
// browser storage has.
//
// SetMany and DeleteMany are atomic: readers observe either none or all of the
// changes. Subscribe delivers change events until ctx is done; delivery is
// best-effort and slow subscribers may miss events.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Event describes one key change. Deleted is set for removals; Clear emits
// one event with an empty Key and Deleted set.
type Event struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Cleared reports whether the event removed every key.
func (e Event) Cleared() bool {
	return e.Deleted && e.Key == ""
}
