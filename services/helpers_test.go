package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"

	"github.com/stretchr/testify/require"
)

// 10 March 2025, 10:00 UTC.
var testNow = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) events() []models.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NotificationEvent
	for _, n := range r.sent {
		out = append(out, n.Event)
	}
	return out
}

// failingKV refuses every write.
type failingKV struct {
	*store.Memory
}

var errWriteRefused = errors.New("write refused")

func (failingKV) Set(context.Context, string, []byte) error { return errWriteRefused }

// refusingKV refuses writes to the keys listed in refuse.
type refusingKV struct {
	*store.Memory
	refuse map[string]bool
}

func (r *refusingKV) Set(ctx context.Context, key string, value []byte) error {
	if r.refuse[key] {
		return errWriteRefused
	}
	return r.Memory.Set(ctx, key, value)
}

// hookDelayer runs fn during the first simulated wait.
type hookDelayer struct {
	once sync.Once
	fn   func()
}

func (h *hookDelayer) Wait(ctx context.Context, _ time.Duration) error {
	h.once.Do(h.fn)
	return ctx.Err()
}

func newTestMarket(t *testing.T, opts ...Option) (*Marketplace, *store.Memory, *recordingNotifier) {
	t.Helper()
	kv := store.NewMemory()
	notifier := &recordingNotifier{}
	base := []Option{
		WithDelayer(NoDelay{}),
		WithClock(ClockFunc(func() time.Time { return testNow })),
		WithNotifier(notifier),
	}
	return NewMarketplace(kv, append(base, opts...)...), kv, notifier
}

func validBooking() models.BookingInput {
	return models.BookingInput{
		Name:        "Asha Rao",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		Address:     "12 MG Road, Pune",
		Date:        "2025-03-14",
		Time:        "10:00",
		Description: "Kitchen sink is leaking",
		ServiceID:   1,
	}
}

func submitBooking(t *testing.T, m *Marketplace, mutate func(*models.BookingInput)) models.Booking {
	t.Helper()
	in := validBooking()
	if mutate != nil {
		mutate(&in)
	}
	b, err := m.SubmitBooking(context.Background(), in)
	require.NoError(t, err)
	return b
}

func int64Ptr(v int64) *int64 { return &v }
