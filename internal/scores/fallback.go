package scores

import (
	"context"
	"fmt"
	"log/slog"
)

// NoticeSavedLocally is shown once when a remote write fell back to the
// local store.
const NoticeSavedLocally = "Could not reach the global leaderboard. Your record was saved on this device."

// Pinger probes the remote for reachability and valid credentials.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Fallback consults the remote store while online and the local store
// otherwise. A remote failure flips connectivity offline and the operation
// is retried once against the local store.
type Fallback struct {
	remote Store
	local  Store
	conn   *Connectivity
	logger *slog.Logger
}

// NewFallback builds the selection policy. remote may be nil, in which case
// conn should be permanently offline.
func NewFallback(remote, local Store, conn *Connectivity, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{remote: remote, local: local, conn: conn, logger: logger}
}

func (f *Fallback) Connectivity() *Connectivity { return f.conn }

func (f *Fallback) useRemote() bool {
	return f.remote != nil && !f.conn.Offline()
}

// Source reports which store is currently authoritative.
func (f *Fallback) Source() Source {
	if f.useRemote() {
		return SourceGlobal
	}
	return SourceLocal
}

// Save submits rec. The caller only sees an error if the local store fails
// too; a remote failure is reported through Degraded.
func (f *Fallback) Save(ctx context.Context, rec Record) (Submission, error) {
	degraded := false
	if f.useRemote() {
		top, err := f.remote.Submit(ctx, rec)
		if err == nil {
			return Submission{Records: top, Source: SourceGlobal}, nil
		}
		f.logger.Warn("remote score submit failed, saving locally", "error", err, "name", rec.Name)
		f.conn.Set(true)
		degraded = true
	}

	top, err := f.local.Submit(ctx, rec)
	if err != nil {
		return Submission{}, fmt.Errorf("saving record locally: %w", err)
	}
	sub := Submission{Records: top, Source: SourceLocal, Degraded: degraded}
	if degraded {
		sub.Notice = NoticeSavedLocally
	}
	return sub, nil
}

func (f *Fallback) Submit(ctx context.Context, rec Record) ([]Record, error) {
	sub, err := f.Save(ctx, rec)
	return sub.Records, err
}

// Board returns the authoritative top list.
func (f *Fallback) Board(ctx context.Context) (Board, error) {
	if f.useRemote() {
		top, err := f.remote.Top5(ctx)
		if err == nil {
			return Board{Records: top, Source: SourceGlobal}, nil
		}
		f.logger.Warn("remote score read failed, using local", "error", err)
		f.conn.Set(true)
	}

	top, err := f.local.Top5(ctx)
	if err != nil {
		return Board{}, fmt.Errorf("reading local records: %w", err)
	}
	return Board{Records: top, Source: SourceLocal}, nil
}

func (f *Fallback) Top5(ctx context.Context) ([]Record, error) {
	b, err := f.Board(ctx)
	return b.Records, err
}

// Reconnect handles a client reporting that it is back online. The remote
// is probed when it supports it; success clears the offline flag.
func (f *Fallback) Reconnect(ctx context.Context) bool {
	if f.remote == nil || f.conn.Permanent() {
		return false
	}
	if p, ok := f.remote.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			f.logger.Warn("remote scores unreachable", "error", err)
			f.conn.Set(true)
			return false
		}
	}
	f.conn.Set(false)
	return true
}

// Disconnect handles a client reporting that it went offline.
func (f *Fallback) Disconnect() {
	f.conn.Set(true)
}
