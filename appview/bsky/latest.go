package bsky

import (
	"context"
	"sync"
)

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Latest hands out contexts that supersede one another per key: when
// a new search starts for a key, the previous in-flight search for
// that key is cancelled. This keeps a slow, stale response from
// overwriting the result of a newer query.
type Latest struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string]inflight
}

func NewLatest() *Latest {
	return &Latest{
		entries: make(map[string]inflight),
	}
}

// Begin cancels any in-flight operation under key and returns a fresh
// child context. Callers must call the returned CancelFunc when the
// operation finishes.
func (l *Latest) Begin(key string, parent context.Context) (context.Context, context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[key]; ok {
		e.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	l.seq++
	seq := l.seq
	l.entries[key] = inflight{seq: seq, cancel: cancel}

	return ctx, func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		cancel()
		// only clear the slot if a newer search has not replaced it
		if e, ok := l.entries[key]; ok && e.seq == seq {
			delete(l.entries, key)
		}
	}
}
