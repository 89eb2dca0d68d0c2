package storage

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// notifier fans events out to in-process subscribers. A subscriber whose
// buffer is full misses the event.
type notifier struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[chan Event]struct{})}
}

func (n *notifier) subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		close(ch)
		return ch
	}
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.remove(ch)
	}()
	return ch
}

func (n *notifier) remove(ch chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
}

func (n *notifier) publish(events ...Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		for _, e := range events {
			select {
			case ch <- e:
			default:
			}
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for ch := range n.subs {
		delete(n.subs, ch)
		close(ch)
	}
}
