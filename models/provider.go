package models

import (
	"github.com/shopspring/decimal"
)

// Provider is a professional offering one or more catalog services.
type Provider struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Avatar          string          `json:"avatar"`
	Rating          float64         `json:"rating"`
	Reviews         int             `json:"reviews"`
	Amount          decimal.Decimal `json:"amount"`
	Price           string          `json:"price"`
	ExperienceYears int             `json:"experienceYears"`
	Location        string          `json:"location"`
	Verified        bool            `json:"verified"`
	Available       bool            `json:"available"`
	Specialties     []string        `json:"specialties"`
	ResponseTime    string          `json:"responseTime"`
	Languages       []string        `json:"languages"`
	ServiceIDs      []int           `json:"serviceIds"`
}

// Offers reports whether the provider works on the given service.
func (p Provider) Offers(serviceID int) bool {
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// ProviderSort selects the order of a provider listing.
type ProviderSort string

const (
	SortByRating     ProviderSort = "rating"
	SortByPrice      ProviderSort = "price"
	SortByExperience ProviderSort = "experience"
	SortByReviews    ProviderSort = "reviews"
)

// ProviderQuery filters and orders a provider listing.
type ProviderQuery struct {
	ServiceID     int
	MinRating     float64
	AvailableOnly bool
	SortBy        ProviderSort
}

// SlotStatus is the state of an availability slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// AvailabilitySlot is a half-hour window a provider has opened.
type AvailabilitySlot struct {
	ID     int64      `json:"id"`
	Date   string     `json:"date"`
	Time   string     `json:"time"`
	Status SlotStatus `json:"status"`
}

// ProviderSummary backs the provider dashboard.
type ProviderSummary struct {
	ProviderID        int64           `json:"providerId"`
	TotalBookings     int             `json:"totalBookings"`
	PendingBookings   int             `json:"pendingBookings"`
	CompletedBookings int             `json:"completedBookings"`
	EarningsThisMonth decimal.Decimal `json:"earningsThisMonth"`
	AverageRating     float64         `json:"averageRating"`
}

// ServiceRevenue is one row of the booking report.
type ServiceRevenue struct {
	ServiceID   int             `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Bookings    int             `json:"bookings"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// BookingReport aggregates the whole booking log.
type BookingReport struct {
	TotalBookings int                   `json:"totalBookings"`
	ByStatus      map[BookingStatus]int `json:"byStatus"`
	TotalRevenue  decimal.Decimal       `json:"totalRevenue"`
	TopServices   []ServiceRevenue      `json:"topServices"`
}
