// controllers/report.go
package controllers

import (
	"net/http"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

// ReportResponse is the booking report with display-formatted revenue.
type ReportResponse struct {
	models.BookingReport
	TotalRevenueLabel string `json:"totalRevenueLabel"`
}

// GetBookingReport aggregates every booking for the admin dashboard.
func (rc *ReportController) GetBookingReport(c *gin.Context) {
	report, err := deps.Market.BookingReport(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReportResponse{
		BookingReport:     report,
		TotalRevenueLabel: utils.FormatPrice(report.TotalRevenue),
	})
}
