package controllers

import (
	"net/http"

	"serviceconnect-backend/models"
	"serviceconnect-backend/services"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

type AddSlotInput struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// GetAvailability lists the provider's slots, or one day's with ?date=.
func GetAvailability(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	avail := deps.Market.Availability(user.ProviderRef())
	var (
		slots []models.AvailabilitySlot
		err   error
	)
	if date := c.Query("date"); date != "" {
		slots, err = avail.SlotsForDate(ctx, date)
	} else {
		slots, err = avail.Slots(ctx)
	}
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slots":     slots,
		"timeSlots": services.TimeSlots,
	})
}

func AddAvailabilitySlot(c *gin.Context) {
	var input AddSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	slot, err := deps.Market.Availability(user.ProviderRef()).AddSlot(c.Request.Context(), input.Date, input.Time)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func RemoveAvailabilitySlot(c *gin.Context) {
	id, ok := int64Param(c, "slotId")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := deps.Market.Availability(user.ProviderRef()).RemoveSlot(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot removed"})
}
