package client

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCountdownTicksToZero(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan int, 8)
	countdown := NewCountdown(clock, func(remaining int) { ticks <- remaining })

	countdown.Start(3)
	clock.BlockUntil(1)

	for _, want := range []int{2, 1, 0} {
		clock.Advance(time.Second)
		select {
		case got := <-ticks:
			if got != want {
				t.Fatalf("expected tick %d, got %d", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d", want)
		}
	}
	if countdown.Remaining() != 0 {
		t.Fatalf("expected zero remaining, got %d", countdown.Remaining())
	}

	// Cancelling after the countdown already ran out is a no-op.
	countdown.Cancel()
	countdown.Cancel()
}

func TestCountdownStartSupersedesPrevious(t *testing.T) {
	clock := clockwork.NewFakeClock()
	countdown := NewCountdown(clock, nil)

	countdown.Start(5)
	countdown.Start(10)

	if countdown.Remaining() != 10 {
		t.Fatalf("expected restarted countdown at 10, got %d", countdown.Remaining())
	}
	countdown.Cancel()
}

func TestCountdownCancelStopsTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan int, 8)
	countdown := NewCountdown(clock, func(remaining int) { ticks <- remaining })

	countdown.Start(10)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	select {
	case got := <-ticks:
		if got != 9 {
			t.Fatalf("expected first tick at 9, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for first tick")
	}

	countdown.Cancel()
	clock.Advance(time.Second)
	select {
	case got := <-ticks:
		t.Fatalf("expected no tick after cancel, got %d", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCountdownCancelWithoutStart(t *testing.T) {
	countdown := NewCountdown(clockwork.NewFakeClock(), nil)
	countdown.Cancel()
}
