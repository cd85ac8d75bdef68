package controllers

import (
	"net/http"
	"strconv"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetServices lists the catalog, filtered by ?q= and ?category=.
func GetServices(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if category != "" && category != models.CategoryAll && !category.Valid() {
		utils.RespondWithFields(c, http.StatusBadRequest, "Unknown category", []string{"category"})
		return
	}

	list, err := deps.Market.ListServices(c.Request.Context(), c.Query("q"), category)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetService(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	service, err := deps.Market.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// GetServiceProviders lists the providers of a service. Query parameters:
// minRating, available=true, sortBy=rating|price|experience|reviews.
func GetServiceProviders(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	query := models.ProviderQuery{
		ServiceID:     id,
		AvailableOnly: c.Query("available") == "true",
		SortBy:        models.ProviderSort(c.Query("sortBy")),
	}
	if raw := c.Query("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithFields(c, http.StatusBadRequest, "Invalid minRating", []string{"minRating"})
			return
		}
		query.MinRating = rating
	}

	providers, err := deps.Market.ListProviders(c.Request.Context(), query)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func GetProvider(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	provider, err := deps.Market.GetProviderByID(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}
