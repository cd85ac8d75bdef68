package models

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
)

// CanTransition reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingRejected || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	case BookingCompleted, BookingCancelled, BookingRejected:
		return false
	default:
		return false
	}
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingRejected:
		return true
	default:
		return false
	}
}

// BookingInput is what a customer submits from the booking form.
type BookingInput struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	Date                string `json:"date"`
	Time                string `json:"time"`
	ServiceType         string `json:"serviceType"`
	Description         string `json:"description"`
	PreferredProvider   string `json:"preferredProvider"`
	SpecialInstructions string `json:"specialInstructions"`

	ServiceID    int    `json:"serviceId"`
	ServiceName  string `json:"serviceName"`
	ProviderID   *int64 `json:"providerId,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
	TotalPrice   string `json:"totalPrice"`
}

// Booking is a persisted booking record.
type Booking struct {
	ID int64 `json:"id"`

	Name                string `json:"name"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	Date                string `json:"date"`
	Time                string `json:"time"`
	ServiceType         string `json:"serviceType,omitempty"`
	Description         string `json:"description"`
	PreferredProvider   string `json:"preferredProvider,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`

	ServiceID    int    `json:"serviceId"`
	ServiceName  string `json:"serviceName"`
	ProviderID   *int64 `json:"providerId,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
	TotalPrice   string `json:"totalPrice"`

	Status    BookingStatus `json:"status"`
	Rating    *int          `json:"rating,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// BookingFilter narrows ListBookings. Zero fields match everything. Email
// compares case-insensitively.
type BookingFilter struct {
	Email      string
	ProviderID *int64
	Status     BookingStatus
}

// Matches reports whether b passes the filter.
func (f BookingFilter) Matches(b Booking) bool {
	if f.Email != "" && !strings.EqualFold(b.Email, f.Email) {
		return false
	}
	if f.ProviderID != nil && (b.ProviderID == nil || *b.ProviderID != *f.ProviderID) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}
