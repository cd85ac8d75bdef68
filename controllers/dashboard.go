package controllers

import (
	"net/http"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

// RecentBookingsLimit caps the bookings shown on the provider dashboard.
const RecentBookingsLimit = 5

type DashboardOverview struct {
	Summary        models.ProviderSummary `json:"summary"`
	EarningsLabel  string                 `json:"earnings"`
	RecentBookings []models.Booking       `json:"recentBookings"`
}

// GetDashboardOverview backs the provider dashboard.
func GetDashboardOverview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	providerID := user.ProviderRef()
	summary, err := deps.Market.ProviderSummary(ctx, providerID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	bookings, err := deps.Market.ListBookings(ctx, models.BookingFilter{ProviderID: &providerID})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	if len(bookings) > RecentBookingsLimit {
		bookings = bookings[:RecentBookingsLimit]
	}

	c.JSON(http.StatusOK, DashboardOverview{
		Summary:        summary,
		EarningsLabel:  utils.FormatPrice(summary.EarningsThisMonth),
		RecentBookings: bookings,
	})
}
