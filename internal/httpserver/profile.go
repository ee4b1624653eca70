package httpserver

import (
	"errors"
	"net/http"

	"cardealer/internal/domain"
	usersvc "cardealer/internal/service/user"
	"github.com/gin-gonic/gin"
)

// profileResponse is what the profile endpoints expose of an account.
type profileResponse struct {
	UserID       int64            `json:"userId"`
	Email        string           `json:"email"`
	FullName     *string          `json:"fullName"`
	Phone        *string          `json:"phone"`
	Address      *string          `json:"address"`
	FavoriteFuel *domain.FuelType `json:"favoriteFuel"`
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		UserID:       u.UserID,
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		Address:      u.Address,
		FavoriteFuel: u.FavoriteFuel,
	}
}

func (h *handlers) getProfile(c *gin.Context) {
	userID, _ := currentUserID(c)
	user, err := h.deps.UserSvc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.serverError(c, "load profile", err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(user))
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req usersvc.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	userID, _ := currentUserID(c)
	user, err := h.deps.UserSvc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.serverError(c, "save profile", err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(user))
}
