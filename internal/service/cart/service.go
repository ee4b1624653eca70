package cart

import (
	"context"
	"errors"

	"cardealer/internal/domain"
	cartrepo "cardealer/internal/repository/cart"
)

// ErrItemNotInCart is returned when a cart item id exists but belongs
// to some other identity's cart. Deliberately distinct from a generic
// not-found so removal by id guessing cannot touch another cart.
var ErrItemNotInCart = errors.New("item not in your cart")

// Service implements the cart operations for one resolved identity.
// All side effects stay inside the cart store.
type Service struct {
	carts cartRepo
	cars  carRepo
}

type cartRepo interface {
	GetByIdentity(ctx context.Context, ident domain.Identity) (*domain.Cart, error)
	Create(ctx context.Context, ident domain.Identity) (*domain.Cart, error)
	GetExpanded(ctx context.Context, cartID int64) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID int64, car domain.Car, quantity int) error
	GetItem(ctx context.Context, cartItemID int64) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartItemID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}

type carRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}

func New(carts cartrepo.Repository, cars carRepo) *Service {
	return &Service{carts: carts, cars: cars}
}

// Get returns the identity's cart fully expanded, creating it when the
// identity has none yet.
func (s *Service) Get(ctx context.Context, ident domain.Identity) (*domain.Cart, error) {
	cart, err := s.getOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}
	return s.carts.GetExpanded(ctx, cart.CartID)
}

// AddItem puts quantity units of a car into the cart. Adding a car
// already present merges: quantities sum and the stored price refreshes
// to the car's current price. Quantity defaults to 1.
func (s *Service) AddItem(ctx context.Context, ident domain.Identity, carID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	cart, err := s.getOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.UpsertItem(ctx, cart.CartID, *car, quantity); err != nil {
		return nil, err
	}
	return s.carts.GetExpanded(ctx, cart.CartID)
}

// RemoveItem deletes one line from the identity's own cart.
func (s *Service) RemoveItem(ctx context.Context, ident domain.Identity, cartItemID int64) (*domain.Cart, error) {
	cart, err := s.getOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}
	item, err := s.carts.GetItem(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrItemNotInCart
		}
		return nil, err
	}
	if item.CartID != cart.CartID {
		return nil, ErrItemNotInCart
	}
	if err := s.carts.DeleteItem(ctx, cartItemID); err != nil {
		return nil, err
	}
	return s.carts.GetExpanded(ctx, cart.CartID)
}

// Clear deletes every line of the identity's cart.
func (s *Service) Clear(ctx context.Context, ident domain.Identity) (*domain.Cart, error) {
	cart, err := s.getOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := s.carts.ClearItems(ctx, cart.CartID); err != nil {
		return nil, err
	}
	return s.carts.GetExpanded(ctx, cart.CartID)
}

func (s *Service) getOrCreate(ctx context.Context, ident domain.Identity) (*domain.Cart, error) {
	cart, err := s.carts.GetByIdentity(ctx, ident)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.carts.Create(ctx, ident)
}
