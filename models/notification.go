package models

import "time"

// NotificationEvent names a booking lifecycle event that customers hear about.
type NotificationEvent string

const (
	EventBookingCreated   NotificationEvent = "booking_created"
	EventBookingAccepted  NotificationEvent = "booking_accepted"
	EventBookingRejected  NotificationEvent = "booking_rejected"
	EventBookingCompleted NotificationEvent = "booking_completed"
	EventBookingCancelled NotificationEvent = "booking_cancelled"
	EventBookingReminder  NotificationEvent = "booking_reminder"
)

// Notification is one outgoing message to a customer.
type Notification struct {
	Event     NotificationEvent `json:"event"`
	BookingID int64             `json:"bookingId"`
	To        string            `json:"to"`
	Message   string            `json:"message"`
}

// NotificationLog records a delivery attempt.
type NotificationLog struct {
	ID           int64             `json:"id"`
	BookingID    int64             `json:"bookingId"`
	Event        NotificationEvent `json:"event"`
	Channel      string            `json:"channel"` // sms, whatsapp, log
	To           string            `json:"to"`
	Message      string            `json:"message"`
	Status       string            `json:"status"` // sent, failed
	ErrorMessage string            `json:"error,omitempty"`
	SentAt       time.Time         `json:"sentAt"`
}
