// controllers/auth.go
package controllers

import (
	"net/http"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(
		"token",
		token,
		maxAge,
		"/",
		"",
		true,
		true,
	)
}

func Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := deps.Market.Register(c.Request.Context(), input)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user,
	})
}

func Login(c *gin.Context) {
	var input models.Credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx := c.Request.Context()
	session, err := deps.Market.Login(ctx, input)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	sess, err := deps.Sessions.Get(ctx, session.User.ID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	if err := sess.Login(ctx, session.User, session.Token); err != nil {
		respondWithServiceError(c, err)
		return
	}

	setTokenCookie(c, session.Token, deps.TokenMaxAge)
	c.JSON(http.StatusOK, session)
}

func Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := sess.Logout(c.Request.Context()); err != nil {
		respondWithServiceError(c, err)
		return
	}

	setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SessionRequired runs after utils.AuthMiddleware and checks that the token
// is still the one stored for the user, so a logout invalidates it.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("userId")
		sess, err := deps.Sessions.Get(c.Request.Context(), userID)
		if err != nil {
			respondWithServiceError(c, err)
			return
		}
		user, signedIn := sess.CurrentUser()
		if !signedIn || sess.Token() != c.GetString("token") {
			utils.RespondWithError(c, http.StatusUnauthorized, "Session expired, please log in again")
			return
		}

		c.Set("session", sess)
		c.Set("user", user)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed account types.
func RequireRole(roles ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c)
		if !ok {
			return
		}
		for _, role := range roles {
			if sess.HasRole(role) {
				c.Next()
				return
			}
		}
		utils.RespondWithError(c, http.StatusForbidden, "Access denied")
	}
}
