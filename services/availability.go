package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"go.uber.org/zap"
)

// TimeSlots are the bookable half-hour starts, 08:00 to 20:00.
var TimeSlots = func() []string {
	var slots []string
	for h := 8; h <= 20; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
		if h < 20 {
			slots = append(slots, fmt.Sprintf("%02d:30", h))
		}
	}
	return slots
}()

func validTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// Availability manages one provider's open time slots.
type Availability struct {
	kv     store.KV
	clock  Clock
	logger *zap.Logger

	mu     sync.Mutex
	lastID int64
}

func NewAvailability(kv store.KV, clock Clock, logger *zap.Logger) *Availability {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Availability{kv: kv, clock: clock, logger: logger}
}

// Availability returns the slot manager of a provider.
func (m *Marketplace) Availability(providerID int64) *Availability {
	m.availMu.Lock()
	defer m.availMu.Unlock()

	a, ok := m.availability[providerID]
	if !ok {
		a = NewAvailability(store.ProviderNamespace(m.kv, providerID), m.clock,
			m.logger.With(zap.Int64("provider_id", providerID)))
		m.availability[providerID] = a
	}
	return a
}

func (a *Availability) load(ctx context.Context) ([]models.AvailabilitySlot, error) {
	return loadLog[models.AvailabilitySlot](ctx, a.kv, store.KeyAvailability)
}

// AddSlot opens a slot. The date may not be in the past and the time must be
// one of TimeSlots.
func (a *Availability) AddSlot(ctx context.Context, date, at string) (models.AvailabilitySlot, error) {
	now := a.clock.Now()
	day, err := utils.ParseDate(strings.TrimSpace(date), now.Location())
	if err != nil {
		return models.AvailabilitySlot{}, newValidationError("invalid fields", "date")
	}
	if day.Before(utils.BeginningOfDay(now)) {
		return models.AvailabilitySlot{}, newValidationError("date is in the past", "date")
	}
	at = strings.TrimSpace(at)
	if !validTimeSlot(at) {
		return models.AvailabilitySlot{}, newValidationError("invalid fields", "time")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	slots, err := a.load(ctx)
	if err != nil {
		return models.AvailabilitySlot{}, err
	}
	slot := models.AvailabilitySlot{Date: day.Format(utils.DateLayout), Time: at, Status: models.SlotAvailable}
	for _, s := range slots {
		if s.Date == slot.Date && s.Time == slot.Time {
			return models.AvailabilitySlot{}, newValidationError("slot already exists", "time")
		}
	}

	slot.ID = now.UnixMilli()
	if slot.ID <= a.lastID {
		slot.ID = a.lastID + 1
	}
	a.lastID = slot.ID

	if err := store.SetJSON(ctx, a.kv, store.KeyAvailability, append(slots, slot)); err != nil {
		return models.AvailabilitySlot{}, err
	}
	return slot, nil
}

// RemoveSlot deletes an open slot. Booked slots stay.
func (a *Availability) RemoveSlot(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	slots, err := a.load(ctx)
	if err != nil {
		return err
	}
	for i, s := range slots {
		if s.ID != id {
			continue
		}
		if s.Status == models.SlotBooked {
			return newValidationError("slot is already booked", "status")
		}
		slots = append(slots[:i], slots[i+1:]...)
		return store.SetJSON(ctx, a.kv, store.KeyAvailability, slots)
	}
	return notFound("slot", id)
}

// Slots returns every slot ordered by date and time.
func (a *Availability) Slots(ctx context.Context) ([]models.AvailabilitySlot, error) {
	slots, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
	return slots, nil
}

// SlotsForDate returns the slots of one day.
func (a *Availability) SlotsForDate(ctx context.Context, date string) ([]models.AvailabilitySlot, error) {
	day, err := utils.NormalizeDate(strings.TrimSpace(date), a.clock.Now().Location())
	if err != nil {
		return nil, newValidationError("invalid fields", "date")
	}
	all, err := a.Slots(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.AvailabilitySlot, 0)
	for _, s := range all {
		if s.Date == day {
			result = append(result, s)
		}
	}
	return result, nil
}

// MarkBooked flips the matching open slot to booked. It reports whether a
// slot was found.
func (a *Availability) MarkBooked(ctx context.Context, date, at string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	slots, err := a.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range slots {
		if slots[i].Date == date && slots[i].Time == at && slots[i].Status == models.SlotAvailable {
			slots[i].Status = models.SlotBooked
			return true, store.SetJSON(ctx, a.kv, store.KeyAvailability, slots)
		}
	}
	return false, nil
}

func (m *Marketplace) reserveSlot(ctx context.Context, b models.Booking) {
	if b.ProviderID == nil {
		return
	}
	found, err := m.Availability(*b.ProviderID).MarkBooked(ctx, b.Date, b.Time)
	if err != nil {
		m.logger.Warn("availability not updated", zap.Int64("booking_id", b.ID), zap.Error(err))
		return
	}
	if found {
		m.logger.Debug("slot booked", zap.Int64("booking_id", b.ID), zap.String("date", b.Date), zap.String("time", b.Time))
	}
}
