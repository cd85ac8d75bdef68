package services

import (
	"context"
	"errors"
	"testing"

	"serviceconnect-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerIDs(providers []models.Provider) []int64 {
	ids := make([]int64, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestListProvidersSorting(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query models.ProviderQuery
		want  []int64
	}{
		{"rating by default", models.ProviderQuery{ServiceID: 1}, []int64{1, 3, 2, 4}},
		{"cheapest first", models.ProviderQuery{ServiceID: 1, SortBy: models.SortByPrice}, []int64{4, 2, 1, 3}},
		{"most experienced", models.ProviderQuery{ServiceID: 1, SortBy: models.SortByExperience}, []int64{3, 1, 2, 4}},
		{"available only", models.ProviderQuery{ServiceID: 1, AvailableOnly: true}, []int64{1, 3, 2}},
		{"min rating", models.ProviderQuery{ServiceID: 1, MinRating: 4.8}, []int64{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ListProviders(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, providerIDs(got))
		})
	}
}

func TestListProvidersErrors(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()

	_, err := m.ListProviders(ctx, models.ProviderQuery{SortBy: "distance"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = m.ListProviders(ctx, models.ProviderQuery{ServiceID: 404})
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestGetProviderByID(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()

	p, err := m.GetProviderByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Anita Desai", p.Name)
	assert.True(t, p.Offers(6))

	_, err = m.GetProviderByID(ctx, 77)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestAvailabilitySlots(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	avail := m.Availability(1)

	_, err := avail.AddSlot(ctx, "2025-03-01", "10:00")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "past dates are rejected")

	_, err = avail.AddSlot(ctx, "2025-03-14", "10:15")
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.HasField("time"))

	late, err := avail.AddSlot(ctx, "2025-03-14", "14:30")
	require.NoError(t, err)
	early, err := avail.AddSlot(ctx, "2025-03-14", "10:00")
	require.NoError(t, err)
	other, err := avail.AddSlot(ctx, "2025-03-15", "09:00")
	require.NoError(t, err)

	_, err = avail.AddSlot(ctx, "2025-03-14", "10:00")
	require.True(t, errors.As(err, &ve), "duplicate slot")

	day, err := avail.SlotsForDate(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, early.ID, day[0].ID)
	assert.Equal(t, late.ID, day[1].ID)

	require.NoError(t, avail.RemoveSlot(ctx, other.ID))
	err = avail.RemoveSlot(ctx, other.ID)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))

	assert.Same(t, avail, m.Availability(1))
}

func TestBookingReservesProviderSlot(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	avail := m.Availability(1)
	slot, err := avail.AddSlot(ctx, "2025-03-14", "10:00")
	require.NoError(t, err)

	submitBooking(t, m, func(in *models.BookingInput) { in.ProviderID = int64Ptr(1) })

	slots, err := avail.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.SlotBooked, slots[0].Status)

	err = avail.RemoveSlot(ctx, slot.ID)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve), "booked slots stay")

	other, err := m.Availability(2).Slots(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestProviderAccountActsForDirectoryEntry(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()
	assigned := submitBooking(t, m, func(in *models.BookingInput) { in.ProviderID = int64Ptr(1) })

	registered, err := m.Register(ctx, models.RegisterInput{
		Name: "Rajesh", Email: "rajesh@example.com", Password: "pw", Type: "provider",
	})
	require.NoError(t, err)
	require.NotNil(t, registered.ProviderID)
	assert.Equal(t, int64(1), *registered.ProviderID)

	session, err := m.Login(ctx, models.Credentials{Email: "rajesh@example.com", Password: "pw", Type: "provider"})
	require.NoError(t, err)
	ref := session.User.ProviderRef()
	assert.Equal(t, int64(1), ref)

	visible, err := m.ListBookings(ctx, models.BookingFilter{ProviderID: &ref})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, assigned.ID, visible[0].ID)

	accepted, err := m.AcceptBooking(ctx, assigned.ID, ref, session.User.Name)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, accepted.Status)

	slot, err := m.Availability(ref).AddSlot(ctx, "2025-03-15", "09:00")
	require.NoError(t, err)
	submitBooking(t, m, func(in *models.BookingInput) {
		in.ProviderID = int64Ptr(1)
		in.Date = "2025-03-15"
		in.Time = "09:00"
	})
	slots, err := m.Availability(ref).Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, slot.ID, slots[0].ID)
	assert.Equal(t, models.SlotBooked, slots[0].Status)
}

func TestDirectoryEntryLinking(t *testing.T) {
	m, _, _ := newTestMarket(t)
	ctx := context.Background()

	byName, err := m.Register(ctx, models.RegisterInput{
		Name: "priya sharma", Email: "ps@example.com", Password: "pw", Type: "provider",
	})
	require.NoError(t, err)
	require.NotNil(t, byName.ProviderID)
	assert.Equal(t, int64(3), *byName.ProviderID)

	taken, err := m.Register(ctx, models.RegisterInput{
		Name: "Priya Sharma", Email: "other@example.com", Password: "pw", Type: "provider",
	})
	require.NoError(t, err)
	assert.Nil(t, taken.ProviderID, "an entry links to one account")
	assert.Equal(t, taken.ID, taken.ProviderRef())

	customer, err := m.Register(ctx, models.RegisterInput{
		Name: "Amit Patel", Email: "amit@example.com", Password: "pw",
	})
	require.NoError(t, err)
	assert.Nil(t, customer.ProviderID)

	session, err := m.Login(ctx, models.Credentials{Email: "vikram@example.com", Password: "pw", Type: "provider"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), session.User.ProviderRef(), "unregistered providers link by email")
}
