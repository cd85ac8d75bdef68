package controllers

import (
	"net/http"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

// SubmitContact stores a message from the contact page.
func SubmitContact(c *gin.Context) {
	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	msg, err := deps.Market.SubmitContact(c.Request.Context(), input)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully!",
		"contact": msg,
	})
}
