package order

import (
	"context"
	"errors"
	"math"
	"strings"

	"cardealer/internal/domain"
	orderrepo "cardealer/internal/repository/order"
)

var (
	// ErrInvalidRating is returned for a non-integer or out-of-range rating.
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")
	// ErrAlreadyCompleted is returned when canceling a rated order.
	ErrAlreadyCompleted = errors.New("order already completed")
)

// Service handles order placement and the post-purchase flows.
type Service struct {
	orders orderRepo
	cars   carRepo
	users  userRepo
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	GetOwned(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	SetRating(ctx context.Context, orderID int64, rating int, comment *string) (*domain.Order, error)
	Delete(ctx context.Context, orderID int64) error
}

type carRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Car, error)
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

func New(orders orderrepo.Repository, cars carRepo, users userRepo) *Service {
	return &Service{orders: orders, cars: cars, users: users}
}

// PlaceInput is the checkout payload. Item prices are never taken from
// the client; the catalog's current prices are snapshotted instead.
type PlaceInput struct {
	FullName string      `json:"fullName"`
	Email    *string     `json:"email"`
	Phone    *string     `json:"phone"`
	Address  *string     `json:"address"`
	Items    []ItemInput `json:"items"`
}

type ItemInput struct {
	CarID    int64 `json:"carId"`
	Quantity int   `json:"quantity"`
}

// Place validates the item list against the catalog and creates the
// order snapshot. One invalid carId rejects the whole order.
func (s *Service) Place(ctx context.Context, userID int64, in PlaceInput) (*domain.Order, error) {
	if strings.TrimSpace(in.FullName) == "" || len(in.Items) == 0 {
		return nil, errors.New("missing fullName or items")
	}

	ids := make([]int64, len(in.Items))
	for i, it := range in.Items {
		ids[i] = it.CarID
	}
	cars, err := s.cars.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Car, len(cars))
	for _, c := range cars {
		byID[c.CarID] = c
	}

	var total int64
	items := make([]orderrepo.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		car, ok := byID[it.CarID]
		if !ok {
			return nil, errors.New("invalid carId in items")
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, orderrepo.ItemInput{
			CarID:    car.CarID,
			Price:    car.Price,
			Quantity: qty,
		})
		total += car.Price * int64(qty)
	}

	return s.orders.Create(ctx, orderrepo.CreateInput{
		UserID:   userID,
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Total:    total,
		Items:    items,
	})
}

// Rate sets or overwrites the order's rating. The order must belong to
// the caller; an integer rating of 1..5 is required. An empty comment
// stores as null.
func (s *Service) Rate(ctx context.Context, userID, orderID int64, rating float64, comment string) (*domain.Order, error) {
	if rating != math.Trunc(rating) || rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.orders.GetOwned(ctx, orderID, userID); err != nil {
		return nil, err
	}

	var trimmed *string
	if c := strings.TrimSpace(comment); c != "" {
		trimmed = &c
	}
	return s.orders.SetRating(ctx, orderID, int(rating), trimmed)
}

// Cancel hard-deletes an unrated order owned by the user behind the
// email. Rated orders count as completed and refuse cancellation.
func (s *Service) Cancel(ctx context.Context, orderID int64, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if orderID == 0 || email == "" {
		return errors.New("orderId and user are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	order, err := s.orders.GetOwned(ctx, orderID, user.UserID)
	if err != nil {
		return err
	}
	if order.Rating != nil {
		return ErrAlreadyCompleted
	}
	return s.orders.Delete(ctx, orderID)
}

// Reserve is the chatbot's one-click flow: find or create the user
// behind the email and place a single-item order at the car's current
// price.
func (s *Service) Reserve(ctx context.Context, email string, carID int64) (int64, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || carID == 0 {
		return 0, errors.New("user and carId are required")
	}

	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return 0, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.users.Create(ctx, domain.User{
			Email:        email,
			PasswordHash: "",
			Role:         domain.RoleUser,
		})
	}
	if err != nil {
		return 0, err
	}

	fullName := email
	if user.FullName != nil && *user.FullName != "" {
		fullName = *user.FullName
	}
	order, err := s.orders.Create(ctx, orderrepo.CreateInput{
		UserID:   user.UserID,
		FullName: fullName,
		Email:    &email,
		Total:    car.Price,
		Items: []orderrepo.ItemInput{{
			CarID:    car.CarID,
			Price:    car.Price,
			Quantity: 1,
		}},
	})
	if err != nil {
		return 0, err
	}
	return order.OrderID, nil
}

// ListMine returns the caller's orders, items expanded.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// ListByEmail is the chatbot's order-status lookup. Blank or unknown
// emails return an empty list rather than an error.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return []domain.Order{}, nil
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Order{}, nil
		}
		return nil, err
	}
	return s.ListMine(ctx, user.UserID)
}

// ListAll returns every order for the admin panel.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Get returns one order with items and user for the admin panel.
func (s *Service) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}
