package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type carSeed struct {
	Make     string
	Model    string
	Year     int
	Price    int64
	Mileage  int
	Fuel     string
	Color    string
	BodyType string
}

// Apply inserts demo data for manual testing: an admin account and a
// small showroom. Cars are only seeded into an empty catalog so reruns
// never duplicate inventory.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@dealer.local", "admin123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM cars`).Scan(&count); err != nil {
		return fmt.Errorf("count cars: %w", err)
	}
	if count > 0 {
		return nil
	}

	cars := []carSeed{
		{"Toyota", "Corolla", 2021, 1850000, 24000, "Petrol", "White", "Sedan"},
		{"Toyota", "RAV4", 2022, 3290000, 15500, "Hybrid", "Silver", "SUV"},
		{"Volkswagen", "Golf", 2019, 1590000, 48200, "Petrol", "Blue", "Hatchback"},
		{"Volkswagen", "Passat", 2020, 2120000, 39000, "Diesel", "Black", "Wagon"},
		{"Tesla", "Model 3", 2023, 4190000, 8200, "Electric", "Red", "Sedan"},
		{"BMW", "X5", 2021, 5480000, 31000, "Diesel", "Grey", "SUV"},
		{"Ford", "Ranger", 2020, 2990000, 56000, "Diesel", "Orange", "Pickup"},
		{"Honda", "Civic", 2018, 1390000, 67400, "Petrol", "Silver", "Sedan"},
		{"Hyundai", "Kona", 2022, 2380000, 12900, "Electric", "Green", "Crossover"},
		{"Mazda", "MX-5", 2019, 2450000, 28700, "Petrol", "Red", "Cabrio"},
	}

	for _, c := range cars {
		if err := insertCar(ctx, pool, c); err != nil {
			return fmt.Errorf("insert car %s %s: %w", c.Make, c.Model, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO users (email, password_hash, role, full_name)
VALUES ($1, $2, 'ADMIN', 'Dealer Admin')
ON CONFLICT ((lower(email))) DO UPDATE SET role = 'ADMIN'
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}

func insertCar(ctx context.Context, pool *pgxpool.Pool, c carSeed) error {
	const q = `
INSERT INTO cars (make, model, year, price, mileage, fuel, color, body_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := pool.Exec(ctx, q, c.Make, c.Model, c.Year, c.Price, c.Mileage, c.Fuel, c.Color, c.BodyType)
	return err
}
