package cart

import (
	"context"
	"errors"

	"cardealer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `cart_id, user_id, session_id, created_at`

func (r *postgresRepo) GetByIdentity(ctx context.Context, ident domain.Identity) (*domain.Cart, error) {
	if userID, ok := ident.UserID(); ok {
		return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE user_id = $1
`, userID)
	}
	sessionID, ok := ident.SessionID()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE session_id = $1
`, sessionID)
}

func (r *postgresRepo) Create(ctx context.Context, ident domain.Identity) (*domain.Cart, error) {
	var userID *int64
	var sessionID *string
	if id, ok := ident.UserID(); ok {
		userID = &id
	} else if sid, ok := ident.SessionID(); ok {
		sessionID = &sid
	} else {
		return nil, domain.ErrNotFound
	}

	const q = `
INSERT INTO carts (user_id, session_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
RETURNING ` + cartColumns
	cart, err := r.fetchCartRow(r.pool.QueryRow(ctx, q, userID, sessionID))
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// Conflict: a concurrent request created the cart first.
	return r.GetByIdentity(ctx, ident)
}

func (r *postgresRepo) GetExpanded(ctx context.Context, cartID int64) (*domain.Cart, error) {
	cart, err := r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE cart_id = $1
`, cartID)
	if err != nil {
		return nil, err
	}

	const itemsQuery = `
SELECT i.cart_item_id, i.cart_id, i.car_id, i.quantity, i.price,
       c.car_id, c.make, c.model, c.year, c.price, c.mileage, c.fuel, c.color, c.body_type, c.image, c.created_at
FROM cart_items i
JOIN cars c ON c.car_id = i.car_id
WHERE i.cart_id = $1
ORDER BY i.cart_item_id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.CartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		var car domain.Car
		if err := rows.Scan(
			&item.CartItemID,
			&item.CartID,
			&item.CarID,
			&item.Quantity,
			&item.Price,
			&car.CarID,
			&car.Make,
			&car.Model,
			&car.Year,
			&car.Price,
			&car.Mileage,
			&car.Fuel,
			&car.Color,
			&car.BodyType,
			&car.Image,
			&car.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Car = &car
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) UpsertItem(ctx context.Context, cartID int64, car domain.Car, quantity int) error {
	const q = `
INSERT INTO cart_items (cart_id, car_id, quantity, price)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, car_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity,
    price = EXCLUDED.price
`
	_, err := r.pool.Exec(ctx, q, cartID, car.CarID, quantity, car.Price)
	return err
}

func (r *postgresRepo) GetItem(ctx context.Context, cartItemID int64) (*domain.CartItem, error) {
	const q = `
SELECT cart_item_id, cart_id, car_id, quantity, price
FROM cart_items
WHERE cart_item_id = $1
`
	var item domain.CartItem
	err := r.pool.QueryRow(ctx, q, cartItemID).Scan(
		&item.CartItemID,
		&item.CartID,
		&item.CarID,
		&item.Quantity,
		&item.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) DeleteItem(ctx context.Context, cartItemID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_item_id = $1`, cartItemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ClearItems(ctx context.Context, cartID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (r *postgresRepo) fetchCart(ctx context.Context, query string, args ...interface{}) (*domain.Cart, error) {
	return r.fetchCartRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *postgresRepo) fetchCartRow(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(&cart.CartID, &cart.UserID, &cart.SessionID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}
