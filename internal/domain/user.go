package domain

import (
	"strings"
	"time"
)

// Role determines what a user may do. Admins manage inventory.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// NormalizeRole upper-cases s and falls back to USER for anything
// that is not a known role.
func NormalizeRole(s string) Role {
	if strings.EqualFold(s, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User is a registered account. Email is stored lower-cased and unique.
type User struct {
	UserID       int64     `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     *string   `json:"fullName"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	FavoriteFuel *FuelType `json:"favoriteFuel,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
