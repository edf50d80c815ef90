package browser

import (
	"context"
	"sync"
)

// PopStateFunc is called after the history cursor moved with Back, Forward
// or Go. path is the browser path (with query) of the new current entry.
type PopStateFunc func(ctx context.Context, path string)

// History is a session history: a list of browser paths with a cursor.
// PushState truncates any forward entries, like the browser does.
type History struct {
	mu        sync.Mutex
	entries   []string
	index     int
	nextID    uint64
	listeners map[uint64]PopStateFunc
}

// NewHistory returns a history holding a single entry.
func NewHistory(initial string) *History {
	if initial == "" {
		initial = "/"
	}
	return &History{
		entries:   []string{initial},
		listeners: make(map[uint64]PopStateFunc),
	}
}

// Current returns the browser path of the current entry.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// PushState appends path after the cursor and moves onto it.
func (h *History) PushState(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
}

// ReplaceState overwrites the current entry.
func (h *History) ReplaceState(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

// Back moves one entry back. It reports false when already at the start.
func (h *History) Back(ctx context.Context) bool { return h.Go(ctx, -1) }

// Forward moves one entry forward.
func (h *History) Forward(ctx context.Context) bool { return h.Go(ctx, 1) }

// Go moves the cursor by delta and fires popstate listeners.
func (h *History) Go(ctx context.Context, delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	listeners := make([]PopStateFunc, 0, len(h.listeners))
	for id := uint64(1); id <= h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, path)
	}
	return true
}

// OnPopState registers fn and returns a func that unregisters it.
func (h *History) OnPopState(fn PopStateFunc) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}
