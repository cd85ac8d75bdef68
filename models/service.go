package models

import (
	"github.com/shopspring/decimal"
)

// Category groups catalog services.
type Category string

const (
	CategoryRepair   Category = "repair"
	CategoryCleaning Category = "cleaning"
	CategoryBeauty   Category = "beauty"
	CategoryOutdoor  Category = "outdoor"
	CategoryMoving   Category = "moving"

	// CategoryAll is a filter sentinel, never a service's category.
	CategoryAll Category = "all"
)

// Valid reports whether c is a real service category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRepair, CategoryCleaning, CategoryBeauty, CategoryOutdoor, CategoryMoving:
		return true
	default:
		return false
	}
}

// Service is a bookable catalog entry.
type Service struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Rating      float64         `json:"rating"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Price       string          `json:"price"` // display form of Amount
	Duration    string          `json:"duration"`
	Location    string          `json:"location"`
	Features    []string        `json:"features"`
	Services    []string        `json:"services"`
}

// Clone returns a copy that shares no slices with s.
func (s Service) Clone() Service {
	s.Features = append([]string(nil), s.Features...)
	s.Services = append([]string(nil), s.Services...)
	return s
}
