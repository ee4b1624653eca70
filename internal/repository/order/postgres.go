package order

import (
	"context"
	"errors"
	"io"
	"log"

	"cardealer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `order_id, user_id, full_name, email, phone, address, total, rating, rating_comment, rated_at, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (user_id, full_name, email, phone, address, total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderColumns
	order, err := scanOrder(tx.QueryRow(ctx, q, in.UserID, in.FullName, in.Email, in.Phone, in.Address, in.Total))
	if err != nil {
		r.logger.Printf("order repo: create user_id=%d error=%v", in.UserID, err)
		return nil, err
	}

	order.Items = make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		var item domain.OrderItem
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, car_id, price, quantity)
VALUES ($1, $2, $3, $4)
RETURNING order_item_id, order_id, car_id, price, quantity
`, order.OrderID, it.CarID, it.Price, it.Quantity).Scan(
			&item.OrderItemID,
			&item.OrderID,
			&item.CarID,
			&item.Price,
			&item.Quantity,
		)
		if err != nil {
			r.logger.Printf("order repo: create item car_id=%d error=%v", it.CarID, err)
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE order_id = $1
`, orderID))
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachUsers(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresRepo) GetOwned(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE order_id = $1 AND user_id = $2
`, orderID, userID))
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
ORDER BY order_id DESC
`)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachUsers(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY order_id DESC
`, userID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) SetRating(ctx context.Context, orderID int64, rating int, comment *string) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
UPDATE orders
SET rating = $2, rating_comment = $3, rated_at = now()
WHERE order_id = $1
RETURNING `+orderColumns, orderID, rating, comment))
}

func (r *postgresRepo) Delete(ctx context.Context, orderID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.OrderID,
			&o.UserID,
			&o.FullName,
			&o.Email,
			&o.Phone,
			&o.Address,
			&o.Total,
			&o.Rating,
			&o.RatingComment,
			&o.RatedAt,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads the items of every order in one query, with each
// item's car joined in.
func (r *postgresRepo) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]*domain.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].OrderID
		orders[i].Items = []domain.OrderItem{}
		index[orders[i].OrderID] = &orders[i]
	}

	const q = `
SELECT i.order_item_id, i.order_id, i.car_id, i.price, i.quantity,
       c.car_id, c.make, c.model, c.year, c.price, c.mileage, c.fuel, c.color, c.body_type, c.image, c.created_at
FROM order_items i
JOIN cars c ON c.car_id = i.car_id
WHERE i.order_id = ANY($1)
ORDER BY i.order_item_id ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var car domain.Car
		if err := rows.Scan(
			&item.OrderItemID,
			&item.OrderID,
			&item.CarID,
			&item.Price,
			&item.Quantity,
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
			return err
		}
		item.Car = &car
		if o, ok := index[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) attachUsers(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].UserID)
	}

	const q = `
SELECT user_id, email, full_name, phone, address, favorite_fuel, role, created_at
FROM users
WHERE user_id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	users := make(map[int64]*domain.User)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UserID, &u.Email, &u.FullName, &u.Phone, &u.Address, &u.FavoriteFuel, &u.Role, &u.CreatedAt); err != nil {
			return err
		}
		users[u.UserID] = &u
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range orders {
		orders[i].User = users[orders[i].UserID]
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.OrderID,
		&o.UserID,
		&o.FullName,
		&o.Email,
		&o.Phone,
		&o.Address,
		&o.Total,
		&o.Rating,
		&o.RatingComment,
		&o.RatedAt,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
