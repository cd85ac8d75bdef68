package controllers

import (
	"net/http"

	"serviceconnect-backend/models"
	"serviceconnect-backend/services"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

type AddCartItemInput struct {
	ServiceID int `json:"serviceId" binding:"required"`
}

type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse is the cart with its derived totals.
type CartResponse struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice string            `json:"totalPrice"`
}

func userCart(c *gin.Context) (*services.CartStore, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	cart, err := deps.Carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondWithServiceError(c, err)
		return nil, false
	}
	return cart, true
}

func respondWithCart(c *gin.Context, status int, cart *services.CartStore) {
	total, err := cart.TotalPrice()
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(status, CartResponse{
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: utils.FormatPrice(total),
	})
}

func GetCart(c *gin.Context) {
	cart, ok := userCart(c)
	if !ok {
		return
	}
	respondWithCart(c, http.StatusOK, cart)
}

// AddCartItem adds one unit of a catalog service.
func AddCartItem(c *gin.Context) {
	var input AddCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	cart, ok := userCart(c)
	if !ok {
		return
	}

	service, err := deps.Market.GetServiceByID(c.Request.Context(), input.ServiceID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	if err := cart.AddService(c.Request.Context(), service); err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithCart(c, http.StatusOK, cart)
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func UpdateCartItem(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	cart, ok := userCart(c)
	if !ok {
		return
	}

	if err := cart.UpdateQuantity(c.Request.Context(), id, *input.Quantity); err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithCart(c, http.StatusOK, cart)
}

func RemoveCartItem(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	cart, ok := userCart(c)
	if !ok {
		return
	}

	if err := cart.RemoveService(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithCart(c, http.StatusOK, cart)
}

func ClearCart(c *gin.Context) {
	cart, ok := userCart(c)
	if !ok {
		return
	}

	if err := cart.ClearCart(c.Request.Context()); err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithCart(c, http.StatusOK, cart)
}

// Checkout books every cart line and empties the cart.
func Checkout(c *gin.Context) {
	var input models.CheckoutInput
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
	cart, ok := userCart(c)
	if !ok {
		return
	}

	bookings, err := deps.Market.Checkout(c.Request.Context(), cart, input)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Multi-service booking completed successfully!",
		"bookings": bookings,
	})
}
