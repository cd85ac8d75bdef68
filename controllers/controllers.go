package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"serviceconnect-backend/models"
	"serviceconnect-backend/services"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the handlers work against.
type Deps struct {
	Market    *services.Marketplace
	Carts     *services.CartRegistry
	Sessions  *services.SessionRegistry
	Reminders *services.ReminderService
	// KV is where notification delivery logs are kept.
	KV store.KV
	// TokenMaxAge is the lifetime of the token cookie, in seconds.
	TokenMaxAge int
}

var deps Deps

// Setup installs the services used by every handler.
func Setup(d Deps) {
	if d.TokenMaxAge <= 0 {
		d.TokenMaxAge = 24 * 3600
	}
	deps = d
}

// respondWithServiceError maps a service error to its HTTP status.
func respondWithServiceError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		auth       *services.AuthError
		transition *services.TransitionError
		price      *utils.PriceFormatError
	)
	switch {
	case errors.As(err, &validation):
		utils.RespondWithFields(c, http.StatusBadRequest, validation.Error(), validation.Fields)
	case errors.As(err, &notFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &auth):
		utils.RespondWithError(c, http.StatusUnauthorized, auth.Error())
	case errors.As(err, &transition):
		utils.RespondWithError(c, http.StatusConflict, transition.Error())
	case errors.As(err, &price):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, price.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Request cancelled")
	default:
		utils.LoggerFrom(c).Error("request failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// currentUser is the session user stored by SessionRequired.
func currentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return models.User{}, false
	}
	user, ok := v.(models.User)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user in context")
		return models.User{}, false
	}
	return user, true
}

// accountEmail fills a blank booking email from the signed-in account and
// rejects one that belongs to somebody else.
func accountEmail(c *gin.Context, user models.User, submitted string) (string, bool) {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return user.Email, true
	}
	if !strings.EqualFold(submitted, user.Email) {
		utils.RespondWithFields(c, http.StatusBadRequest,
			"Booking email must match the signed-in account", []string{"email"})
		return "", false
	}
	return submitted, true
}

func currentSession(c *gin.Context) (*services.SessionContext, bool) {
	v, exists := c.Get("session")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return nil, false
	}
	sess, ok := v.(*services.SessionContext)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid session in context")
		return nil, false
	}
	return sess, true
}
