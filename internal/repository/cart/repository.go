package cart

import (
	"context"

	"cardealer/internal/domain"
)

type Repository interface {
	// GetByIdentity returns the bare cart row owned by the identity.
	GetByIdentity(ctx context.Context, ident domain.Identity) (*domain.Cart, error)
	// Create inserts a cart for the identity. On a concurrent duplicate
	// insert it returns the existing cart instead of failing, so
	// find-or-create cannot produce two carts for one identity.
	Create(ctx context.Context, ident domain.Identity) (*domain.Cart, error)
	// GetExpanded returns the cart with item rows joined to their cars.
	GetExpanded(ctx context.Context, cartID int64) (*domain.Cart, error)
	// UpsertItem inserts a line for (cart, car) or atomically merges
	// into the existing one: quantities sum, price refreshes to the
	// car's current price.
	UpsertItem(ctx context.Context, cartID int64, car domain.Car, quantity int) error
	GetItem(ctx context.Context, cartItemID int64) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartItemID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}
