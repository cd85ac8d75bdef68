package models

import "time"

// ContactInput is a message sent from the contact page or a provider's
// contact modal.
type ContactInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	ServiceID  *int   `json:"serviceId,omitempty"`
	ProviderID *int64 `json:"providerId,omitempty"`
}

// ContactMessage is a stored contact message. It is never modified.
type ContactMessage struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message"`
	ServiceID  *int      `json:"serviceId,omitempty"`
	ProviderID *int64    `json:"providerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
