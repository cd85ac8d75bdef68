package services

import (
	"context"
	"time"
)

// Simulated round-trip latencies of the mock backend.
const (
	latencyListServices = 500 * time.Millisecond
	latencyGetService   = 300 * time.Millisecond
	latencyBooking      = 1000 * time.Millisecond
	latencyContact      = 800 * time.Millisecond
	latencyLogin        = 1000 * time.Millisecond
	latencyRegister     = 1500 * time.Millisecond
	latencyUpdate       = 1000 * time.Millisecond
)

// Delayer stands in for network latency.
type Delayer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// TimerDelayer sleeps for the requested duration, returning early if ctx ends.
type TimerDelayer struct{}

func (TimerDelayer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay returns immediately.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
