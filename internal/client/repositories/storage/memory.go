package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps the session in process memory. It backs tests and the
// "memory" storage backend, where the session ends with the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	n      *notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string), n: newNotifier()}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *MemoryStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	for k, v := range values {
		s.values[k] = v
	}
	s.mu.Unlock()

	s.n.publish(setEvents(values)...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	return s.DeleteMany(ctx, key)
}

func (s *MemoryStore) DeleteMany(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.values, k)
	}
	s.mu.Unlock()

	s.n.publish(deleteEvents(keys)...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.values = make(map[string]string)
	s.mu.Unlock()

	s.n.publish(Event{Deleted: true})
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan Event, error) {
	return s.n.subscribe(ctx), nil
}

func (s *MemoryStore) Close() error {
	s.n.close()
	return nil
}

// setEvents returns events in key order so subscribers see a stable sequence.
func setEvents(values map[string]string) []Event {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	events := make([]Event, 0, len(keys))
	for _, k := range keys {
		events = append(events, Event{Key: k, Value: values[k]})
	}
	return events
}

func deleteEvents(keys []string) []Event {
	events := make([]Event, 0, len(keys))
	for _, k := range keys {
		events = append(events, Event{Key: k, Deleted: true})
	}
	return events
}
