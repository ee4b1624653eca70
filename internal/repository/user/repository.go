package user

import (
	"context"

	"cardealer/internal/domain"
)

// ProfileUpdate overwrites the mutable profile fields. Nil pointers
// clear the column, matching the full-overwrite profile endpoint.
type ProfileUpdate struct {
	FullName     *string
	Phone        *string
	Address      *string
	FavoriteFuel *domain.FuelType
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
