// Package scores persists the solo top-5 leaderboard. A remote libSQL
// collection is authoritative while online; a local list under a fixed key
// takes over when offline or when the remote fails.
package scores

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TopN          = 5
	MaxNameLength = 15
	DefaultName   = "ANONYMOUS"
	dateLayout    = "2006-01-02"
)

var ErrInvalidRecord = errors.New("invalid record")

type Record struct {
	Name string `json:"name"`
	Time int    `json:"time"`
	Date string `json:"date"`
}

// NewRecord normalizes name and stamps the record with at's date.
func NewRecord(name string, seconds int, at time.Time) Record {
	return Record{
		Name: NormalizeName(name),
		Time: seconds,
		Date: at.Format(dateLayout),
	}
}

// NormalizeName trims, uppercases and caps name. Blank names get DefaultName.
func NormalizeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}

func (r Record) Validate() error {
	if r.Name == "" || r.Time < 0 {
		return ErrInvalidRecord
	}
	return nil
}

// Rank returns a copy of records sorted ascending by time and truncated to
// TopN. Ties keep their insertion order.
func Rank(records []Record) []Record {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b Record) int { return a.Time - b.Time })
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}

// Qualifies reports whether seconds earns a place in top. Any time
// qualifies while fewer than TopN records exist.
func Qualifies(top []Record, seconds int) bool {
	if len(top) < TopN {
		return true
	}
	return seconds < top[len(top)-1].Time
}

// Store persists records and returns the ranked top list.
type Store interface {
	Submit(ctx context.Context, rec Record) ([]Record, error)
	Top5(ctx context.Context) ([]Record, error)
}

type Source string

const (
	SourceGlobal Source = "global"
	SourceLocal  Source = "local"
)

func (s Source) Title() string {
	if s == SourceGlobal {
		return "Global records"
	}
	return "Local records"
}

func (s Source) Subtitle() string {
	if s == SourceGlobal {
		return "Top 5 worldwide"
	}
	return "Top 5 on this device"
}

// Board is a top list together with the store it came from.
type Board struct {
	Records []Record `json:"records"`
	Source  Source   `json:"source"`
}

// Submission is the outcome of Fallback.Save. Degraded is set when the
// remote write failed and the record went to the local store instead.
type Submission struct {
	Records  []Record `json:"records"`
	Source   Source   `json:"source"`
	Degraded bool     `json:"degraded"`
	Notice   string   `json:"notice,omitempty"`
}
