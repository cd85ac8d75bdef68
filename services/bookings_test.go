package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingLifecycle(t *testing.T) {
	m, kv, notifier := newTestMarket(t)
	ctx := context.Background()
	b := submitBooking(t, m, nil)

	accepted, err := m.AcceptBooking(ctx, b.ID, 1, "Rajesh Kumar")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, accepted.Status)
	require.NotNil(t, accepted.ProviderID)
	assert.Equal(t, int64(1), *accepted.ProviderID)
	assert.NotNil(t, accepted.UpdatedAt)

	completed, err := m.CompleteBooking(ctx, b.ID, 1, "Rajesh Kumar")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completed.Status)

	review, err := m.RateBooking(ctx, b.ID, "asha@example.com", 5, " Quick and tidy ")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Quick and tidy", review.Review)

	var reviews []models.Review
	_, err = store.GetJSON(ctx, kv, store.KeyReviews, &reviews)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = m.RateBooking(ctx, b.ID, "asha@example.com", 4, "")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = m.CancelBooking(ctx, b.ID, "asha@example.com")
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.BookingCompleted, te.From)

	assert.Equal(t, []models.NotificationEvent{
		models.EventBookingCreated,
		models.EventBookingAccepted,
		models.EventBookingCompleted,
	}, notifier.events())
}

func TestRejectedBookingIsFinal(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	b := submitBooking(t, m, nil)

	_, err := m.RejectBooking(ctx, b.ID, 2, "Amit Patel")
	require.NoError(t, err)

	_, err = m.AcceptBooking(ctx, b.ID, 2, "Amit Patel")
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.BookingRejected, te.From)
	assert.Equal(t, models.BookingConfirmed, te.To)
}

func TestCompletePendingBookingFails(t *testing.T) {
	m, _, _ := newTestMarket(t)
	b := submitBooking(t, m, nil)

	_, err := m.CompleteBooking(context.Background(), b.ID, 1, "Rajesh Kumar")

	var te *TransitionError
	assert.True(t, errors.As(err, &te))
}

func TestProviderCannotTouchAnotherProvidersBooking(t *testing.T) {
	m, _, _ := newTestMarket(t)
	b := submitBooking(t, m, func(in *models.BookingInput) { in.ProviderID = int64Ptr(1) })

	_, err := m.AcceptBooking(context.Background(), b.ID, 2, "Amit Patel")

	var ae *AuthError
	assert.True(t, errors.As(err, &ae))
	stored, err := m.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
}

func TestCancelBooking(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	b := submitBooking(t, m, nil)

	_, err := m.CancelBooking(ctx, b.ID, "someone@else.com")
	var ae *AuthError
	require.True(t, errors.As(err, &ae))

	cancelled, err := m.CancelBooking(ctx, b.ID, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	_, err = m.CancelBooking(ctx, 12345, "")
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestRateBookingValidation(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	b := submitBooking(t, m, nil)

	for _, rating := range []int{0, 6} {
		_, err := m.RateBooking(ctx, b.ID, "", rating, "")
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.True(t, ve.HasField("rating"))
	}

	_, err := m.RateBooking(ctx, b.ID, "", 4, "")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.HasField("status"), "pending bookings cannot be rated")
}

func TestRateBookingFailedWriteLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	kv := &refusingKV{Memory: store.NewMemory(), refuse: map[string]bool{}}
	m := NewMarketplace(kv,
		WithDelayer(NoDelay{}),
		WithClock(ClockFunc(func() time.Time { return testNow })),
		WithNotifier(&recordingNotifier{}),
	)
	b := submitBooking(t, m, nil)
	_, err := m.AcceptBooking(ctx, b.ID, 1, "Rajesh Kumar")
	require.NoError(t, err)
	_, err = m.CompleteBooking(ctx, b.ID, 1, "Rajesh Kumar")
	require.NoError(t, err)

	kv.refuse[store.KeyReviews] = true
	_, err = m.RateBooking(ctx, b.ID, "", 5, "great")
	require.ErrorIs(t, err, errWriteRefused)
	stored, err := m.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Rating)

	kv.refuse[store.KeyReviews] = false
	kv.refuse[store.KeyBookings] = true
	_, err = m.RateBooking(ctx, b.ID, "", 5, "great")
	require.ErrorIs(t, err, errWriteRefused)
	var reviews []models.Review
	_, err = store.GetJSON(ctx, kv, store.KeyReviews, &reviews)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	kv.refuse[store.KeyBookings] = false
	review, err := m.RateBooking(ctx, b.ID, "", 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	stored, err = m.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 5, *stored.Rating)
}

func TestListBookingsFilters(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	first := submitBooking(t, m, nil)
	second := submitBooking(t, m, func(in *models.BookingInput) {
		in.Email = "ben@example.com"
		in.ProviderID = int64Ptr(3)
	})

	all, err := m.ListBookings(ctx, models.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := m.ListBookings(ctx, models.BookingFilter{Email: "asha@example.com"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	mixedCase, err := m.ListBookings(ctx, models.BookingFilter{Email: "Asha@Example.com"})
	require.NoError(t, err)
	require.Len(t, mixedCase, 1)
	assert.Equal(t, first.ID, mixedCase[0].ID)

	assigned, err := m.ListBookings(ctx, models.BookingFilter{ProviderID: int64Ptr(3)})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, second.ID, assigned[0].ID)

	confirmed, err := m.ListBookings(ctx, models.BookingFilter{Status: models.BookingConfirmed})
	require.NoError(t, err)
	assert.Empty(t, confirmed)
}

func TestCheckout(t *testing.T) {
	m, _, notifier := newTestMarket(t)
	ctx := context.Background()
	cart, err := NewCartStore(ctx, store.NewMemory(), nil)
	require.NoError(t, err)

	in := models.CheckoutInput{
		Name: "Asha Rao", Phone: "9876543210", Email: "asha@example.com",
		Address: "12 MG Road, Pune", Date: "2025-03-14", Time: "10:00",
	}

	_, err = m.Checkout(ctx, cart, in)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"items"}, ve.Fields)

	require.NoError(t, cart.AddService(ctx, catalogService(t, 1)))
	require.NoError(t, cart.AddService(ctx, catalogService(t, 1)))
	require.NoError(t, cart.AddService(ctx, catalogService(t, 4)))

	missing := in
	missing.Address = ""
	_, err = m.Checkout(ctx, cart, missing)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"address"}, ve.Fields)
	assert.Equal(t, 3, cart.TotalItems(), "a failed checkout keeps the cart")

	bookings, err := m.Checkout(ctx, cart, in)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "₹5,000", bookings[0].TotalPrice)
	assert.Equal(t, "₹2,000", bookings[1].TotalPrice)
	assert.NotEqual(t, bookings[0].ID, bookings[1].ID)
	for _, b := range bookings {
		assert.Equal(t, models.BookingPending, b.Status)
	}

	assert.Empty(t, cart.Items())
	assert.Len(t, notifier.events(), 2)

	stored, err := m.ListBookings(ctx, models.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCheckoutKeepsLinesAddedInFlight(t *testing.T) {
	ctx := context.Background()
	cart, err := NewCartStore(ctx, store.NewMemory(), nil)
	require.NoError(t, err)
	require.NoError(t, cart.AddService(ctx, catalogService(t, 1)))

	delayer := &hookDelayer{fn: func() {
		require.NoError(t, cart.AddService(ctx, catalogService(t, 4)))
		require.NoError(t, cart.AddService(ctx, catalogService(t, 1)))
	}}
	m, _, _ := newTestMarket(t, WithDelayer(delayer))

	bookings, err := m.Checkout(ctx, cart, models.CheckoutInput{
		Name: "Asha Rao", Phone: "9876543210", Email: "asha@example.com",
		Address: "12 MG Road, Pune", Date: "2025-03-14", Time: "10:00",
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 1, bookings[0].ServiceID)
	assert.Equal(t, "₹2,500", bookings[0].TotalPrice)

	left := cart.Items()
	require.Len(t, left, 2)
	assert.Equal(t, 1, left[0].ID)
	assert.Equal(t, 1, left[0].Quantity)
	assert.Equal(t, 4, left[1].ID)
	assert.Equal(t, 1, left[1].Quantity)
}

func TestProviderSummaryAndReport(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	done := submitBooking(t, m, nil)
	submitBooking(t, m, func(in *models.BookingInput) { in.ServiceID = 4 })

	_, err := m.AcceptBooking(ctx, done.ID, 1, "Rajesh Kumar")
	require.NoError(t, err)
	_, err = m.CompleteBooking(ctx, done.ID, 1, "Rajesh Kumar")
	require.NoError(t, err)
	_, err = m.RateBooking(ctx, done.ID, "", 4, "")
	require.NoError(t, err)

	summary, err := m.ProviderSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalBookings)
	assert.Equal(t, 1, summary.CompletedBookings)
	assert.Equal(t, 0, summary.PendingBookings)
	assert.Equal(t, "2500", summary.EarningsThisMonth.String())
	assert.Equal(t, 4.0, summary.AverageRating)

	report, err := m.BookingReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalBookings)
	assert.Equal(t, 1, report.ByStatus[models.BookingCompleted])
	assert.Equal(t, 1, report.ByStatus[models.BookingPending])
	assert.Equal(t, "2500", report.TotalRevenue.String())
	require.Len(t, report.TopServices, 2)
	assert.Equal(t, 1, report.TopServices[0].ServiceID)
}
