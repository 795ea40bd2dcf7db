package scores

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/playperu/emojimemory/internal/database"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func times(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Time
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank(t *testing.T) {
	var records []Record
	for _, tm := range []int{50, 40, 60, 30, 70, 20} {
		records = Rank(append(records, Record{Name: "X", Time: tm}))
	}
	if got, want := times(records), []int{20, 30, 40, 50, 60}; !equalInts(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRankStableTies(t *testing.T) {
	got := Rank([]Record{{Name: "A", Time: 10}, {Name: "B", Time: 5}, {Name: "C", Time: 10}})
	if got[1].Name != "A" || got[2].Name != "C" {
		t.Errorf("expected ties in insertion order, got %+v", got)
	}
}

func TestQualifies(t *testing.T) {
	full := []Record{{Time: 10}, {Time: 20}, {Time: 30}, {Time: 40}, {Time: 50}}
	tests := []struct {
		name    string
		top     []Record
		seconds int
		want    bool
	}{
		{"empty board", nil, 999, true},
		{"under five records", full[:4], 999, true},
		{"faster than fifth", full, 49, true},
		{"equal to fifth", full, 50, false},
		{"slower than fifth", full, 51, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualifies(tt.top, tt.seconds); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"":                       DefaultName,
		"   ":                    DefaultName,
		" maría ":                "MARÍA",
		"averyveryverylongname":  "AVERYVERYVERYLO",
		"ñññññññññññññññññññññ": strings.Repeat("Ñ", MaxNameLength),
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRecordDate(t *testing.T) {
	rec := NewRecord("ana", 42, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	if rec.Date != "2024-12-31" || rec.Name != "ANA" || rec.Time != 42 {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(ctx, openDB(t))
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}

	top, err := store.Top5(ctx)
	if err != nil || len(top) != 0 {
		t.Fatalf("expected empty board, got %v (%v)", top, err)
	}

	for _, tm := range []int{50, 40, 60, 30, 70, 20} {
		if _, err := store.Submit(ctx, Record{Name: "X", Time: tm, Date: "2024-01-01"}); err != nil {
			t.Fatalf("submit %d: %v", tm, err)
		}
	}

	top, err = store.Top5(ctx)
	if err != nil {
		t.Fatalf("top5: %v", err)
	}
	if got, want := times(top), []int{20, 30, 40, 50, 60}; !equalInts(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLocalStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(ctx, openDB(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Submit(ctx, Record{Name: "", Time: 3}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRemoteStore(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	store, err := NewRemoteStore(ctx, db, "Emoji Memory", nil)
	if err != nil {
		t.Fatalf("new remote store: %v", err)
	}
	if store.Namespace() != "emoji-memory" {
		t.Errorf("expected namespace emoji-memory, got %q", store.Namespace())
	}

	// Documents from another app and malformed ones are ignored.
	if _, err := db.ExecContext(ctx,
		`INSERT INTO scores (id, namespace, data) VALUES
		 ('a', 'other-app', jsonb('{"name":"Z","time":1,"date":"x"}')),
		 ('b', 'emoji-memory', jsonb('{"time":2,"date":"x"}')),
		 ('c', 'emoji-memory', jsonb('{"name":"NEG","time":-1,"date":"x"}'))`,
	); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, tm := range []int{50, 40, 60, 30, 70, 20} {
		if _, err := store.Submit(ctx, Record{Name: "X", Time: tm, Date: "2024-01-01"}); err != nil {
			t.Fatalf("submit %d: %v", tm, err)
		}
	}
	top, err := store.Top5(ctx)
	if err != nil {
		t.Fatalf("top5: %v", err)
	}
	if got, want := times(top), []int{20, 30, 40, 50, 60}; !equalInts(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores WHERE namespace = 'emoji-memory'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Errorf("expected append-only storage of 8 documents, got %d", n)
	}
	if err := store.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}
