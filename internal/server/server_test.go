package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/playperu/emojimemory/internal/database"
	"github.com/playperu/emojimemory/internal/memory"
	"github.com/playperu/emojimemory/internal/scores"
)

type manualTimer struct {
	f       func()
	stopped bool
}

// manualScheduler queues timers until the test runs them.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualScheduler) AfterFunc(_ time.Duration, f func()) memory.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{f: f}
	m.timers = append(m.timers, t)
	return &manualHandle{m: m, t: t}
}

type manualHandle struct {
	m *manualScheduler
	t *manualTimer
}

func (h *manualHandle) Stop() bool {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	was := !h.t.stopped
	h.t.stopped = true
	return was
}

// runPending fires every timer queued so far, once.
func (m *manualScheduler) runPending() {
	m.mu.Lock()
	queued := m.timers
	m.timers = nil
	m.mu.Unlock()
	for _, t := range queued {
		m.mu.Lock()
		stopped := t.stopped
		t.stopped = true
		m.mu.Unlock()
		if !stopped {
			t.f()
		}
	}
}

var singlePair = memory.Catalog{{Ordinal: 1, Columns: 2, Rows: 1, PairCount: 1}}

type testEnv struct {
	app     *App
	handler http.Handler
	sched   *manualScheduler
	clock   *clockwork.FakeClock
}

func newTestEnv(t *testing.T, catalog memory.Catalog, limiter *IPLimiter) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	local, err := scores.NewLocalStore(ctx, db)
	if err != nil {
		t.Fatalf("init local store: %v", err)
	}
	fb := scores.NewFallback(nil, local, scores.PermanentlyOffline(), logger)

	sched := &manualScheduler{}
	clock := clockwork.NewFakeClock()
	broker := NewBroker()
	reg := NewRegistry(memory.Options{
		Catalog:     catalog,
		Clock:       clock,
		Scheduler:   sched,
		Leaderboard: fb,
	}, broker, logger)
	t.Cleanup(func() { reg.Close() })

	if limiter == nil {
		limiter = NewIPLimiter(1000, 1000)
	}
	app := NewApp(reg, fb, broker, limiter, "", logger)
	return &testEnv{app: app, handler: NewHandler(logger, app, nil), sched: sched, clock: clock}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestBrokerPublish(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("t")
	other := b.Subscribe("u")

	b.Publish("t", "hello", map[string]int{"n": 1})

	select {
	case msg := <-ch:
		if msg.Event != "hello" || string(msg.Data) != `{"n":1}` {
			t.Errorf("unexpected message %s %s", msg.Event, msg.Data)
		}
	default:
		t.Fatal("expected a message")
	}
	select {
	case <-other:
		t.Fatal("message leaked to another topic")
	default:
	}

	b.Unsubscribe("t", ch)
	if n := b.Subscribers("t"); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}
}

func TestRegistryReap(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	reg := env.app.Sessions

	idle, err := reg.Create()
	if err != nil {
		t.Fatal(err)
	}
	busy, err := reg.Create()
	if err != nil {
		t.Fatal(err)
	}

	env.clock.Advance(3 * time.Hour)
	busy.StartSolo()

	if n := reg.Reap(2 * time.Hour); n != 1 {
		t.Fatalf("expected 1 reaped, got %d", n)
	}
	if _, err := reg.Get(idle.ID()); err != ErrNotFound {
		t.Errorf("expected idle session gone, got %v", err)
	}
	if _, err := reg.Get(busy.ID()); err != nil {
		t.Errorf("expected busy session kept, got %v", err)
	}
}

func TestIPLimiterPrune(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewIPLimiter(10, 10)
	l.clock = clock

	l.get("10.0.0.1")
	clock.Advance(3 * time.Hour)
	l.get("10.0.0.2")

	if n := l.Prune(2 * time.Hour); n != 1 {
		t.Fatalf("expected 1 pruned, got %d", n)
	}
	if n := l.Len(); n != 1 {
		t.Errorf("expected 1 limiter left, got %d", n)
	}
	if _, ok := l.limiters["10.0.0.2"]; !ok {
		t.Error("expected the recent client to be kept")
	}
}
