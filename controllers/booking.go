package controllers

import (
	"net/http"
	"strings"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

type RateBookingInput struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// SubmitBooking creates a pending booking for the signed-in customer.
func SubmitBooking(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if input.Email, ok = accountEmail(c, user, input.Email); !ok {
		return
	}

	booking, err := deps.Market.SubmitBooking(c.Request.Context(), input)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists the bookings visible to the caller: a customer's own,
// a provider's assigned plus unclaimed pending ones, or all for an admin.
// ?status= narrows the list.
func GetBookings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	status := models.BookingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.RespondWithFields(c, http.StatusBadRequest, "Unknown status", []string{"status"})
		return
	}

	ctx := c.Request.Context()
	filter := models.BookingFilter{Status: status}
	switch user.Type {
	case models.UserTypeCustomer:
		filter.Email = user.Email
	case models.UserTypeProvider:
		ref := user.ProviderRef()
		filter.ProviderID = &ref
	}

	bookings, err := deps.Market.ListBookings(ctx, filter)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	if user.Type == models.UserTypeProvider && (status == "" || status == models.BookingPending) {
		open, err := deps.Market.ListBookings(ctx, models.BookingFilter{Status: models.BookingPending})
		if err != nil {
			respondWithServiceError(c, err)
			return
		}
		for _, b := range open {
			if b.ProviderID == nil {
				bookings = append(bookings, b)
			}
		}
	}

	c.JSON(http.StatusOK, bookings)
}

func visibleTo(user models.User, b models.Booking) bool {
	switch user.Type {
	case models.UserTypeAdmin:
		return true
	case models.UserTypeProvider:
		return b.ProviderID == nil || *b.ProviderID == user.ProviderRef()
	default:
		return strings.EqualFold(b.Email, user.Email)
	}
}

func GetBooking(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	booking, err := deps.Market.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	if !visibleTo(user, booking) {
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func CancelBooking(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	booking, err := deps.Market.CancelBooking(c.Request.Context(), id, user.Email)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func RateBooking(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var input RateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	review, err := deps.Market.RateBooking(c.Request.Context(), id, user.Email, input.Rating, input.Review)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted successfully!",
		"review":  review,
	})
}

func AcceptBooking(c *gin.Context) {
	providerAction(c, "accept")
}

func RejectBooking(c *gin.Context) {
	providerAction(c, "reject")
}

func CompleteBooking(c *gin.Context) {
	providerAction(c, "complete")
}

func providerAction(c *gin.Context, action string) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	providerID := user.ProviderRef()
	var (
		booking models.Booking
		err     error
	)
	switch action {
	case "accept":
		booking, err = deps.Market.AcceptBooking(ctx, id, providerID, user.Name)
	case "reject":
		booking, err = deps.Market.RejectBooking(ctx, id, providerID, user.Name)
	default:
		booking, err = deps.Market.CompleteBooking(ctx, id, providerID, user.Name)
	}
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
