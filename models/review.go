package models

import "time"

type Review struct {
	BookingID  int64     `json:"bookingId"`
	ProviderID *int64    `json:"providerId,omitempty"`
	ServiceID  int       `json:"serviceId"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review"`
	CreatedAt  time.Time `json:"createdAt"`
}
