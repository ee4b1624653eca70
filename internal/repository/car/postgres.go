package car

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"cardealer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const carColumns = `car_id, make, model, year, price, mileage, fuel, color, body_type, image, created_at`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Car, error) {
	const q = `
SELECT ` + carColumns + `
FROM cars
ORDER BY car_id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	const q = `
SELECT ` + carColumns + `
FROM cars
WHERE car_id = $1
`
	return r.scanCar(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Car, error) {
	const q = `
SELECT ` + carColumns + `
FROM cars
WHERE car_id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

// Search runs a filtered count and a filtered page fetch as two
// separate queries so the client can render page controls. The pair is
// not atomic; a stale total under concurrent writes is acceptable for
// catalog browsing.
func (r *postgresRepo) Search(ctx context.Context, q SearchQuery) ([]domain.Car, int, error) {
	where, args := buildWhere(q)

	var total int
	countQuery := `SELECT count(*) FROM cars` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("car repo: search count error=%v", err)
		return nil, 0, err
	}

	pageQuery := `SELECT ` + carColumns + ` FROM cars` + where +
		` ORDER BY ` + orderClause(q.Sort) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, q.PageSize, q.PageIndex*q.PageSize)

	rows, err := r.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		r.logger.Printf("car repo: search page error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanCars(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func buildWhere(q SearchQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.BodyType != nil {
		add(`body_type = $%d`, *q.BodyType)
	}
	if q.Fuel != nil {
		add(`fuel = $%d`, *q.Fuel)
	}
	if q.Make != "" {
		add(`make ILIKE $%d`, "%"+escapeLike(q.Make)+"%")
	}
	if q.Model != "" {
		add(`model ILIKE $%d`, "%"+escapeLike(q.Model)+"%")
	}
	if q.MaxPrice != nil {
		add(`price <= $%d`, *q.MaxPrice)
	}
	if q.MinYear != nil {
		add(`year >= $%d`, *q.MinYear)
	}
	if q.MaxMileage != nil {
		add(`mileage <= $%d`, *q.MaxMileage)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

func orderClause(sort SortKey) string {
	switch sort {
	case SortYearAsc:
		return "year ASC, car_id ASC"
	case SortPriceAsc:
		return "price ASC, car_id ASC"
	case SortPriceDesc:
		return "price DESC, car_id ASC"
	case SortMileageAsc:
		return "mileage ASC, car_id ASC"
	case SortMileageDesc:
		return "mileage DESC, car_id ASC"
	default:
		return "year DESC, car_id ASC"
	}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Car) (*domain.Car, error) {
	const q = `
INSERT INTO cars (make, model, year, price, mileage, fuel, color, body_type, image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + carColumns
	return r.scanCar(r.pool.QueryRow(ctx, q,
		c.Make, c.Model, c.Year, c.Price, c.Mileage, c.Fuel, c.Color, c.BodyType, c.Image,
	))
}

func (r *postgresRepo) Update(ctx context.Context, id int64, p Patch) (*domain.Car, error) {
	const q = `
UPDATE cars
SET make      = COALESCE($2, make),
    model     = COALESCE($3, model),
    year      = COALESCE($4, year),
    price     = COALESCE($5, price),
    color     = COALESCE($6, color),
    mileage   = COALESCE($7, mileage),
    fuel      = COALESCE($8, fuel),
    image     = CASE WHEN $9 THEN NULLIF($10, '') ELSE image END,
    body_type = CASE WHEN $11 THEN $12 ELSE body_type END
WHERE car_id = $1
RETURNING ` + carColumns
	var image string
	if p.Image != nil {
		image = *p.Image
	}
	return r.scanCar(r.pool.QueryRow(ctx, q,
		id,
		p.Make, p.Model, p.Year, p.Price, p.Color, p.Mileage, p.Fuel,
		p.SetImage, image,
		p.SetBodyType, p.BodyType,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE car_id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrInUse
		}
		r.logger.Printf("car repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListMissingImages(ctx context.Context) ([]domain.Car, error) {
	const q = `
SELECT ` + carColumns + `
FROM cars
WHERE image IS NULL OR image = ''
ORDER BY car_id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

func (r *postgresRepo) UpdateImage(ctx context.Context, id int64, url string) (*domain.Car, error) {
	const q = `
UPDATE cars
SET image = $2
WHERE car_id = $1
RETURNING ` + carColumns
	return r.scanCar(r.pool.QueryRow(ctx, q, id, url))
}

func (r *postgresRepo) Facets(ctx context.Context) (*Facets, error) {
	const q = `SELECT body_type, fuel FROM cars`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &Facets{ByBody: map[string]int{}, ByFuel: map[string]int{}}
	for rows.Next() {
		var body *string
		var fuel string
		if err := rows.Scan(&body, &fuel); err != nil {
			return nil, err
		}
		key := "NULL"
		if body != nil {
			key = *body
		}
		out.ByBody[key]++
		out.ByFuel[strings.ToLower(fuel)]++
		out.Total++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) scanCar(row pgx.Row) (*domain.Car, error) {
	var c domain.Car
	err := row.Scan(
		&c.CarID,
		&c.Make,
		&c.Model,
		&c.Year,
		&c.Price,
		&c.Mileage,
		&c.Fuel,
		&c.Color,
		&c.BodyType,
		&c.Image,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrInUse
		}
		r.logger.Printf("car repo: scan error=%v", err)
		return nil, err
	}
	return &c, nil
}

func scanCars(rows pgx.Rows) ([]domain.Car, error) {
	var out []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(
			&c.CarID,
			&c.Make,
			&c.Model,
			&c.Year,
			&c.Price,
			&c.Mileage,
			&c.Fuel,
			&c.Color,
			&c.BodyType,
			&c.Image,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
