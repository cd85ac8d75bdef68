package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListBookings returns the bookings matching filter, newest first.
func (m *Marketplace) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	bookings, err := loadLog[models.Booking](ctx, m.kv, store.KeyBookings)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	result := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter.Matches(b) {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetBooking returns one booking by id.
func (m *Marketplace) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	bookings, err := loadLog[models.Booking](ctx, m.kv, store.KeyBookings)
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, notFound("booking", id)
}

// updateBooking applies fn to the stored booking and writes the log back.
// Nothing is written if fn fails.
func (m *Marketplace) updateBooking(ctx context.Context, id int64, fn func(b *models.Booking) error) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bookings, err := loadLog[models.Booking](ctx, m.kv, store.KeyBookings)
	if err != nil {
		return models.Booking{}, err
	}
	for i := range bookings {
		if bookings[i].ID != id {
			continue
		}
		if err := fn(&bookings[i]); err != nil {
			return models.Booking{}, err
		}
		now := m.clock.Now().UTC()
		bookings[i].UpdatedAt = &now
		if err := store.SetJSON(ctx, m.kv, store.KeyBookings, bookings); err != nil {
			return models.Booking{}, err
		}
		return bookings[i], nil
	}
	return models.Booking{}, notFound("booking", id)
}

func (m *Marketplace) transition(ctx context.Context, id int64, to models.BookingStatus,
	authorize func(b *models.Booking) error) (models.Booking, error) {
	if err := m.delay.Wait(ctx, latencyUpdate); err != nil {
		return models.Booking{}, err
	}

	booking, err := m.updateBooking(ctx, id, func(b *models.Booking) error {
		if err := authorize(b); err != nil {
			return err
		}
		if !b.Status.CanTransition(to) {
			return &TransitionError{BookingID: b.ID, From: b.Status, To: to}
		}
		b.Status = to
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	m.logger.Info("booking status changed",
		zap.Int64("booking_id", booking.ID),
		zap.String("status", string(booking.Status)))

	m.notify(ctx, statusEvent(to), booking)
	return booking, nil
}

func statusEvent(s models.BookingStatus) models.NotificationEvent {
	switch s {
	case models.BookingConfirmed:
		return models.EventBookingAccepted
	case models.BookingRejected:
		return models.EventBookingRejected
	case models.BookingCompleted:
		return models.EventBookingCompleted
	case models.BookingCancelled:
		return models.EventBookingCancelled
	default:
		return models.EventBookingCreated
	}
}

// ownedBy lets a provider act on its own bookings and claim unassigned ones.
func ownedBy(providerID int64, providerName string) func(b *models.Booking) error {
	return func(b *models.Booking) error {
		if b.ProviderID != nil && *b.ProviderID != providerID {
			return &AuthError{Reason: "booking belongs to another provider"}
		}
		if b.ProviderID == nil {
			id := providerID
			b.ProviderID = &id
			b.ProviderName = providerName
		}
		return nil
	}
}

// AcceptBooking confirms a pending booking on behalf of a provider.
func (m *Marketplace) AcceptBooking(ctx context.Context, id, providerID int64, providerName string) (models.Booking, error) {
	return m.transition(ctx, id, models.BookingConfirmed, ownedBy(providerID, providerName))
}

// RejectBooking declines a pending booking on behalf of a provider.
func (m *Marketplace) RejectBooking(ctx context.Context, id, providerID int64, providerName string) (models.Booking, error) {
	return m.transition(ctx, id, models.BookingRejected, ownedBy(providerID, providerName))
}

// CompleteBooking marks a confirmed booking as done.
func (m *Marketplace) CompleteBooking(ctx context.Context, id, providerID int64, providerName string) (models.Booking, error) {
	return m.transition(ctx, id, models.BookingCompleted, ownedBy(providerID, providerName))
}

// CancelBooking cancels a pending or confirmed booking. A non-empty email must
// match the customer who placed it.
func (m *Marketplace) CancelBooking(ctx context.Context, id int64, email string) (models.Booking, error) {
	return m.transition(ctx, id, models.BookingCancelled, func(b *models.Booking) error {
		if email != "" && !strings.EqualFold(b.Email, email) {
			return &AuthError{Reason: "booking belongs to another customer"}
		}
		return nil
	})
}

// RateBooking stores the customer's review of a completed booking. The review
// is written first and withdrawn again if the booking cannot be marked rated,
// so a failure leaves neither behind.
func (m *Marketplace) RateBooking(ctx context.Context, id int64, email string, rating int, text string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, newValidationError("rating must be between 1 and 5", "rating")
	}
	if err := m.delay.Wait(ctx, latencyUpdate); err != nil {
		return models.Review{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bookings, err := loadLog[models.Booking](ctx, m.kv, store.KeyBookings)
	if err != nil {
		return models.Review{}, fmt.Errorf("rate booking: %w", err)
	}
	idx := -1
	for i := range bookings {
		if bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Review{}, notFound("booking", id)
	}
	b := &bookings[idx]
	if email != "" && !strings.EqualFold(b.Email, email) {
		return models.Review{}, &AuthError{Reason: "booking belongs to another customer"}
	}
	if b.Status != models.BookingCompleted {
		return models.Review{}, newValidationError("only completed bookings can be rated", "status")
	}
	if b.Rating != nil {
		return models.Review{}, newValidationError("booking already rated", "rating")
	}

	reviews, err := loadLog[models.Review](ctx, m.kv, store.KeyReviews)
	if err != nil {
		return models.Review{}, fmt.Errorf("rate booking: %w", err)
	}
	now := m.clock.Now().UTC()
	review := models.Review{
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		Rating:     rating,
		Review:     strings.TrimSpace(text),
		CreatedAt:  now,
	}
	if err := store.SetJSON(ctx, m.kv, store.KeyReviews, append(reviews, review)); err != nil {
		return models.Review{}, fmt.Errorf("rate booking: %w", err)
	}

	r := rating
	b.Rating = &r
	b.UpdatedAt = &now
	if err := store.SetJSON(ctx, m.kv, store.KeyBookings, bookings); err != nil {
		if undoErr := store.SetJSON(ctx, m.kv, store.KeyReviews, reviews); undoErr != nil {
			m.logger.Error("review left without rated booking",
				zap.Int64("booking_id", id), zap.Error(undoErr))
		}
		return models.Review{}, fmt.Errorf("rate booking: %w", err)
	}
	return review, nil
}

// Checkout turns every cart line into a pending booking, stores them in one
// write and then takes the booked lines off the cart. Lines added while the
// checkout is in flight are left for the next one.
func (m *Marketplace) Checkout(ctx context.Context, cart *CartStore, in models.CheckoutInput) ([]models.Booking, error) {
	items := cart.Items()
	if len(items) == 0 {
		return nil, newValidationError("cart is empty", "items")
	}

	missing := utils.MissingFields(
		utils.Field{Name: "name", Value: in.Name},
		utils.Field{Name: "phone", Value: in.Phone},
		utils.Field{Name: "email", Value: in.Email},
		utils.Field{Name: "address", Value: in.Address},
		utils.Field{Name: "date", Value: in.Date},
		utils.Field{Name: "time", Value: in.Time},
	)
	if len(missing) > 0 {
		return nil, newValidationError("missing required fields", missing...)
	}
	date, invalid := m.checkContactFields(in.Phone, in.Email, in.Date)
	if len(invalid) > 0 {
		return nil, newValidationError("invalid fields", invalid...)
	}

	bookings := make([]models.Booking, 0, len(items))
	for _, item := range items {
		service, err := m.findService(item.ID)
		if err != nil {
			return nil, err
		}
		unit, err := utils.ParsePrice(item.Price)
		if err != nil {
			return nil, fmt.Errorf("cart item %d: %w", item.ID, err)
		}
		bookings = append(bookings, models.Booking{
			Name:                strings.TrimSpace(in.Name),
			Phone:               strings.TrimSpace(in.Phone),
			Email:               strings.TrimSpace(in.Email),
			Address:             strings.TrimSpace(in.Address),
			Date:                date,
			Time:                strings.TrimSpace(in.Time),
			ServiceType:         service.Name,
			Description:         item.Description,
			SpecialInstructions: in.SpecialInstructions,
			ServiceID:           service.ID,
			ServiceName:         service.Name,
			TotalPrice:          utils.FormatPrice(unit.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			Status:              models.BookingPending,
		})
	}

	if err := m.delay.Wait(ctx, latencyBooking); err != nil {
		return nil, err
	}

	m.mu.Lock()
	now := m.clock.Now().UTC()
	for i := range bookings {
		bookings[i].ID = m.nextIDLocked()
		bookings[i].CreatedAt = now
	}
	err := appendLog(ctx, m.kv, store.KeyBookings, bookings...)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	if err := cart.RemoveBooked(ctx, items); err != nil {
		m.logger.Warn("booked lines not removed from cart", zap.Error(err))
	}
	for _, b := range bookings {
		m.notify(ctx, models.EventBookingCreated, b)
	}
	m.logger.Info("cart checked out", zap.Int("bookings", len(bookings)))
	return bookings, nil
}

// ProviderSummary computes the provider dashboard figures. Earnings count
// completed bookings dated in the current month.
func (m *Marketplace) ProviderSummary(ctx context.Context, providerID int64) (models.ProviderSummary, error) {
	id := providerID
	bookings, err := m.ListBookings(ctx, models.BookingFilter{ProviderID: &id})
	if err != nil {
		return models.ProviderSummary{}, err
	}

	now := m.clock.Now()
	summary := models.ProviderSummary{
		ProviderID:        providerID,
		TotalBookings:     len(bookings),
		EarningsThisMonth: decimal.Zero,
	}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingPending:
			summary.PendingBookings++
		case models.BookingCompleted:
			summary.CompletedBookings++
			day, err := utils.ParseDate(b.Date, now.Location())
			if err != nil || day.Year() != now.Year() || day.Month() != now.Month() {
				continue
			}
			amount, err := utils.ParsePrice(b.TotalPrice)
			if err != nil {
				return models.ProviderSummary{}, fmt.Errorf("booking %d: %w", b.ID, err)
			}
			summary.EarningsThisMonth = summary.EarningsThisMonth.Add(amount)
		}
	}

	reviews, err := loadLog[models.Review](ctx, m.kv, store.KeyReviews)
	if err != nil {
		return models.ProviderSummary{}, err
	}
	var total, count int
	for _, r := range reviews {
		if r.ProviderID != nil && *r.ProviderID == providerID {
			total += r.Rating
			count++
		}
	}
	if count > 0 {
		summary.AverageRating = float64(total) / float64(count)
	}
	return summary, nil
}

// BookingReport aggregates the booking log: counts per status and revenue of
// completed bookings per service.
func (m *Marketplace) BookingReport(ctx context.Context) (models.BookingReport, error) {
	bookings, err := m.ListBookings(ctx, models.BookingFilter{})
	if err != nil {
		return models.BookingReport{}, err
	}

	report := models.BookingReport{
		TotalBookings: len(bookings),
		ByStatus:      make(map[models.BookingStatus]int),
		TotalRevenue:  decimal.Zero,
	}
	perService := make(map[int]*models.ServiceRevenue)
	for _, b := range bookings {
		report.ByStatus[b.Status]++

		row, ok := perService[b.ServiceID]
		if !ok {
			row = &models.ServiceRevenue{ServiceID: b.ServiceID, ServiceName: b.ServiceName, Revenue: decimal.Zero}
			perService[b.ServiceID] = row
		}
		row.Bookings++

		if b.Status != models.BookingCompleted {
			continue
		}
		amount, err := utils.ParsePrice(b.TotalPrice)
		if err != nil {
			return models.BookingReport{}, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		row.Revenue = row.Revenue.Add(amount)
		report.TotalRevenue = report.TotalRevenue.Add(amount)
	}

	for _, row := range perService {
		report.TopServices = append(report.TopServices, *row)
	}
	sort.Slice(report.TopServices, func(i, j int) bool {
		a, b := report.TopServices[i], report.TopServices[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		if a.Bookings != b.Bookings {
			return a.Bookings > b.Bookings
		}
		return a.ServiceID < b.ServiceID
	})
	return report, nil
}
