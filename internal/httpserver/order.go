package httpserver

import (
	"errors"
	"net/http"
	"time"

	"cardealer/internal/domain"
	ordersvc "cardealer/internal/service/order"
	"github.com/gin-gonic/gin"
)

type rateOrderRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// orderStatus is the flattened order-status view read by the chatbot:
// each item carries the car's display fields directly instead of a
// nested car object.
type orderStatus struct {
	OrderID   int64             `json:"orderId"`
	Total     int64             `json:"total"`
	Rating    *int              `json:"rating"`
	RatedAt   *time.Time        `json:"ratedAt"`
	CreatedAt time.Time         `json:"createdAt"`
	Items     []orderStatusItem `json:"items"`
}

type orderStatusItem struct {
	CarID int64   `json:"carId"`
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Price int64   `json:"price"`
	Image *string `json:"image"`
}

func orderStatusView(orders []domain.Order) []orderStatus {
	out := make([]orderStatus, 0, len(orders))
	for _, o := range orders {
		st := orderStatus{
			OrderID:   o.OrderID,
			Total:     o.Total,
			Rating:    o.Rating,
			RatedAt:   o.RatedAt,
			CreatedAt: o.CreatedAt,
			Items:     make([]orderStatusItem, 0, len(o.Items)),
		}
		for _, it := range o.Items {
			item := orderStatusItem{CarID: it.CarID, Price: it.Price}
			if it.Car != nil {
				item.Make = it.Car.Make
				item.Model = it.Car.Model
				item.Year = it.Car.Year
				item.Image = it.Car.Image
			}
			st.Items = append(st.Items, item)
		}
		out = append(out, st)
	}
	return out
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.ListAll(c.Request.Context())
	if err != nil {
		h.serverError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getOrderByID serves both GET /orders/:id (admin) and
// GET /orders/by-email?user= (public order-status lookup for the
// chatbot), since gin routes them through the same parameter.
func (h *handlers) getOrderByID(c *gin.Context) {
	if c.Param("id") == "by-email" {
		orders, err := h.deps.OrderSvc.ListByEmail(c.Request.Context(), c.Query("user"))
		if err != nil {
			h.serverError(c, "orders by email", err)
			return
		}
		c.JSON(http.StatusOK, orderStatusView(orders))
		return
	}

	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.deps.OrderSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.serverError(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) placeOrder(c *gin.Context) {
	var req ordersvc.PlaceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fullName or items"})
		return
	}

	userID, _ := currentUserID(c)
	order, err := h.deps.OrderSvc.Place(c.Request.Context(), userID, req)
	if err != nil {
		switch err.Error() {
		case "missing fullName or items":
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fullName or items"})
		case "invalid carId in items":
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid carId in items"})
		default:
			h.serverError(c, "place order", err)
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// cancelOrder deletes an unrated order. The caller proves ownership by
// passing the account email in the user query parameter.
func (h *handlers) cancelOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.deps.OrderSvc.Cancel(c.Request.Context(), id, c.Query("user"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, ordersvc.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "already_completed"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) myOrders(c *gin.Context) {
	userID, _ := currentUserID(c)
	orders, err := h.deps.OrderSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.serverError(c, "list my orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) rateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req rateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be an integer between 1 and 5"})
		return
	}

	userID, _ := currentUserID(c)
	order, err := h.deps.OrderSvc.Rate(c.Request.Context(), userID, id, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, ordersvc.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be an integer between 1 and 5"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			h.serverError(c, "rate order", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"orderId":       order.OrderID,
		"rating":        order.Rating,
		"ratingComment": order.RatingComment,
		"ratedAt":       order.RatedAt,
	})
}
