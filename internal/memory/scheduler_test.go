package memory

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestClockSchedulerFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sched := NewClockScheduler(clock)

	fired := make(chan struct{})
	sched.AfterFunc(time.Second, func() { close(fired) })
	clock.Advance(time.Second)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestClockSchedulerStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sched := NewClockScheduler(clock)

	fired := make(chan struct{})
	timer := sched.AfterFunc(time.Second, func() { close(fired) })
	if !timer.Stop() {
		t.Fatal("expected Stop to report an active timer")
	}
	clock.Advance(2 * time.Second)

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}
