package httpserver

import (
	"errors"
	"net/http"

	"cardealer/internal/domain"
	cartsvc "cardealer/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	CarID    int64 `json:"carId"`
	Quantity int   `json:"quantity"`
}

type reserveRequest struct {
	User  string `json:"user"`
	CarID int64  `json:"carId"`
}

func (h *handlers) getCart(c *gin.Context) {
	ident, ok := identityOf(c)
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), ident)
	if err != nil {
		h.serverError(c, "get cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addCartItem(c *gin.Context) {
	ident, ok := identityOf(c)
	if !ok {
		return
	}
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CarID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "carId required"})
		return
	}

	cart, err := h.deps.CartSvc.AddItem(c.Request.Context(), ident, req.CarID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		h.serverError(c, "add cart item", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	ident, ok := identityOf(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	cart, err := h.deps.CartSvc.RemoveItem(c.Request.Context(), ident, itemID)
	if err != nil {
		if errors.Is(err, cartsvc.ErrItemNotInCart) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not in your cart"})
			return
		}
		h.serverError(c, "remove cart item", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) clearCart(c *gin.Context) {
	ident, ok := identityOf(c)
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.Clear(c.Request.Context(), ident)
	if err != nil {
		h.serverError(c, "clear cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) reserveCar(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user and carId are required"})
		return
	}

	orderID, err := h.deps.OrderSvc.Reserve(c.Request.Context(), req.User, req.CarID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}
