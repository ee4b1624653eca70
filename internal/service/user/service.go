package user

import (
	"context"

	"cardealer/internal/domain"
	userrepo "cardealer/internal/repository/user"
)

// Service exposes the profile surface of an account.
type Service struct {
	users userrepo.Repository
}

func New(users userrepo.Repository) *Service {
	return &Service{users: users}
}

// ProfileInput carries the full profile payload. The update is a full
// overwrite: absent fields clear their columns, and an unrecognized
// favorite fuel stores as null rather than erroring.
type ProfileInput struct {
	FullName     *string `json:"fullName"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	FavoriteFuel *string `json:"favoriteFuel"`
}

func (s *Service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*domain.User, error) {
	var fav *domain.FuelType
	if in.FavoriteFuel != nil {
		if parsed, ok := domain.ParseFuelType(*in.FavoriteFuel); ok {
			fav = &parsed
		}
	}
	return s.users.UpdateProfile(ctx, userID, userrepo.ProfileUpdate{
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		FavoriteFuel: fav,
	})
}
