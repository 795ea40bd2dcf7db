package memory

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Sessions use it for every delay so tests
// can drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler adapts a clockwork.Clock.
type ClockScheduler struct {
	Clock clockwork.Clock
}

func NewClockScheduler(clock clockwork.Clock) ClockScheduler {
	return ClockScheduler{Clock: clock}
}

func (s ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return s.Clock.AfterFunc(d, f)
}
