package db

import (
	"context"
	"sort"
	"sync"
)

// changeFeed fans committed changes out to in-process subscribers.
// Events are queued in commit order and delivered by one goroutine at a time.
type changeFeed struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string]map[int]ChangeHandler

	queueMu  sync.Mutex
	queue    []ChangeEvent
	draining bool
}

func newChangeFeed() *changeFeed {
	return &changeFeed{handlers: make(map[string]map[int]ChangeHandler)}
}

// subscribe registers a handler for a table. The subscription ends when the
// returned func is called or ctx is done, whichever comes first.
func (f *changeFeed) subscribe(ctx context.Context, table string, handler ChangeHandler) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	if f.handlers[table] == nil {
		f.handlers[table] = make(map[int]ChangeHandler)
	}
	f.handlers[table][id] = handler
	f.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.handlers[table], id)
			f.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)

	return func() {
		stop()
		unsubscribe()
	}
}

// enqueue records events for delivery. Callers hold the store lock so the
// queue follows commit order.
func (f *changeFeed) enqueue(events ...ChangeEvent) {
	f.queueMu.Lock()
	f.queue = append(f.queue, events...)
	f.queueMu.Unlock()
}

// deliver runs handlers for queued events on the caller's goroutine. If another
// goroutine is already delivering, it picks up these events instead. It must
// not be called while the store lock is held.
func (f *changeFeed) deliver() {
	f.queueMu.Lock()
	if f.draining {
		f.queueMu.Unlock()
		return
	}
	f.draining = true

	for len(f.queue) > 0 {
		batch := f.queue
		f.queue = nil
		f.queueMu.Unlock()

		for _, ev := range batch {
			for _, h := range f.snapshot(ev.Table) {
				h(ev)
			}
		}

		f.queueMu.Lock()
	}

	f.draining = false
	f.queueMu.Unlock()
}

// snapshot returns the table's handlers in subscription order
func (f *changeFeed) snapshot(table string) []ChangeHandler {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int, 0, len(f.handlers[table]))
	for id := range f.handlers[table] {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	handlers := make([]ChangeHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, f.handlers[table][id])
	}
	return handlers
}

// subscriberCount returns the number of live handlers for a table
func (f *changeFeed) subscriberCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers[table])
}
