package scores

import (
	"context"
	"slices"
	"sync"
)

// Feed keeps the last published board and pushes changes to publish.
// It stands in for a live query on the remote collection.
type Feed struct {
	store   *Fallback
	publish func(Board)

	mu   sync.Mutex
	last *Board
}

func NewFeed(store *Fallback, publish func(Board)) *Feed {
	return &Feed{store: store, publish: publish}
}

// Refresh reads the current board and publishes it if it differs from the
// last one sent.
func (f *Feed) Refresh(ctx context.Context) error {
	b, err := f.store.Board(ctx)
	if err != nil {
		return err
	}
	f.Push(b)
	return nil
}

// Push publishes b unless it equals the last board.
func (f *Feed) Push(b Board) {
	f.mu.Lock()
	if f.last != nil && f.last.Source == b.Source && slices.Equal(f.last.Records, b.Records) {
		f.mu.Unlock()
		return
	}
	f.last = &b
	f.mu.Unlock()

	f.publish(b)
}

// Last returns the most recently published board.
func (f *Feed) Last() (Board, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return Board{}, false
	}
	return *f.last, true
}
