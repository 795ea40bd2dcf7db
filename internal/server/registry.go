package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/playperu/emojimemory/internal/memory"
)

var ErrNotFound = errors.New("not found")

// Registry holds the live game sessions by id.
type Registry struct {
	opts   memory.Options
	broker *Broker
	clock  clockwork.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*memory.Session
}

// NewRegistry creates sessions from opts. opts.Rand must be nil so every
// session seeds its own source.
func NewRegistry(opts memory.Options, broker *Broker, logger *slog.Logger) *Registry {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	opts.Rand = nil
	return &Registry{
		opts:     opts,
		broker:   broker,
		clock:    opts.Clock,
		logger:   logger,
		sessions: make(map[string]*memory.Session),
	}
}

func (r *Registry) Create() (*memory.Session, error) {
	id := uuid.NewString()
	opts := r.opts
	opts.Renderer = newSSERenderer(r.broker, id)
	opts.Logger = r.logger

	s, err := memory.NewSession(id, opts)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) Get(id string) (*memory.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove stops the session's timers and forgets it.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// Reap removes sessions idle for longer than idle and returns how many.
func (r *Registry) Reap(idle time.Duration) int {
	cutoff := r.clock.Now().Add(-idle)

	r.mu.RLock()
	var stale []string
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if r.Remove(id) {
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
	return nil
}
