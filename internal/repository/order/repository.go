package order

import (
	"context"

	"cardealer/internal/domain"
)

// CreateInput is the immutable snapshot captured at placement time.
// Item prices are already resolved from the catalog by the service;
// the repository never recomputes them.
type CreateInput struct {
	UserID   int64
	FullName string
	Email    *string
	Phone    *string
	Address  *string
	Total    int64
	Items    []ItemInput
}

type ItemInput struct {
	CarID    int64
	Price    int64
	Quantity int
}

type Repository interface {
	// Create inserts the order and all its items in one transaction.
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	// GetOwned returns the bare order only when it belongs to userID.
	GetOwned(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	// ListAll returns every order with items and owning user, newest first.
	ListAll(ctx context.Context) ([]domain.Order, error)
	// ListByUser returns the user's orders with items joined to cars, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	SetRating(ctx context.Context, orderID int64, rating int, comment *string) (*domain.Order, error)
	Delete(ctx context.Context, orderID int64) error
}
