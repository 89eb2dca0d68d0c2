package session

import (
	"context"

	"github.com/fyndrai/fyndr/internal/client/repositories/storage"
)

// EventKind is a session change seen by other views.
type EventKind int

const (
	EventLoggedOut EventKind = iota + 1
	EventProfileChanged
)

func (k EventKind) String() string {
	switch k {
	case EventLoggedOut:
		return "logged_out"
	case EventProfileChanged:
		return "profile_changed"
	}
	return "unknown"
}

// Watch reports logouts and profile changes made through the store, by this
// process or, for shared stores, by others. The channel closes when ctx is
// done. Delivery is best-effort.
func (s *Session) Watch(ctx context.Context) (<-chan EventKind, error) {
	events, err := s.store.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan EventKind, 4)
	go func() {
		defer close(out)
		for ev := range events {
			kind, ok := classifyEvent(ev)
			if !ok {
				continue
			}
			select {
			case out <- kind:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func classifyEvent(ev storage.Event) (EventKind, bool) {
	switch {
	case ev.Cleared(), ev.Deleted && ev.Key == storage.KeyAccessToken:
		return EventLoggedOut, true
	case !ev.Deleted && ev.Key == storage.KeyUser:
		return EventProfileChanged, true
	}
	return 0, false
}
