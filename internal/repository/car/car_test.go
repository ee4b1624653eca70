package car

import (
	"context"
	"log"
	"os"
	"testing"

	"cardealer/internal/domain"
	"cardealer/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_SearchFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, log.New(os.Stdout, "[test] ", 0))
	seedCars(ctx, t, repo)

	fuel := domain.FuelPetrol
	maxPrice := int64(2000000)
	items, total, err := repo.Search(ctx, SearchQuery{
		Fuel:      &fuel,
		MaxPrice:  &maxPrice,
		Sort:      SortPriceAsc,
		PageIndex: 0,
		PageSize:  20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 petrol cars under 2M, got total=%d len=%d", total, len(items))
	}
	if items[0].Price > items[1].Price {
		t.Fatalf("expected ascending price order: %d then %d", items[0].Price, items[1].Price)
	}
}

func TestPostgres_SearchMakeIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, log.New(os.Stdout, "[test] ", 0))
	seedCars(ctx, t, repo)

	_, total, err := repo.Search(ctx, SearchQuery{
		Make:     "toyota",
		Sort:     SortYearDesc,
		PageSize: 20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 toyotas, got %d", total)
	}
}

func TestPostgres_SearchPaginationTotal(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, log.New(os.Stdout, "[test] ", 0))
	seedCars(ctx, t, repo)

	items, total, err := repo.Search(ctx, SearchQuery{
		Sort:      SortYearDesc,
		PageIndex: 1,
		PageSize:  2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected total 4 independent of page, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on page 1, got %d", len(items))
	}
}

func TestPostgres_UpdateClearsImageAndBodyType(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, log.New(os.Stdout, "[test] ", 0))

	img := "https://img.example.com/car.jpg"
	body := domain.BodySedan
	created, err := repo.Create(ctx, domain.Car{
		Make: "Toyota", Model: "Corolla", Year: 2021, Price: 1850000,
		Fuel: domain.FuelPetrol, BodyType: &body, Image: &img,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	blank := ""
	updated, err := repo.Update(ctx, created.CarID, Patch{
		SetImage:    true,
		Image:       &blank,
		SetBodyType: true,
		BodyType:    nil,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Image != nil {
		t.Fatalf("expected image cleared, got %v", *updated.Image)
	}
	if updated.BodyType != nil {
		t.Fatalf("expected body type cleared, got %v", *updated.BodyType)
	}
}

func TestPostgres_Facets(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, log.New(os.Stdout, "[test] ", 0))
	seedCars(ctx, t, repo)

	facets, err := repo.Facets(ctx)
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if facets.Total != 4 {
		t.Fatalf("expected total 4, got %d", facets.Total)
	}
	if facets.ByFuel["petrol"] != 2 {
		t.Fatalf("expected 2 petrol, got %+v", facets.ByFuel)
	}
	if facets.ByBody["Sedan"] != 2 {
		t.Fatalf("expected 2 sedans, got %+v", facets.ByBody)
	}
}

func seedCars(ctx context.Context, t *testing.T, repo Repository) {
	t.Helper()
	sedan := domain.BodySedan
	suv := domain.BodySUV
	cars := []domain.Car{
		{Make: "Toyota", Model: "Corolla", Year: 2021, Price: 1850000, Mileage: 24000, Fuel: domain.FuelPetrol, BodyType: &sedan},
		{Make: "Toyota", Model: "RAV4", Year: 2022, Price: 3290000, Mileage: 15500, Fuel: domain.FuelHybrid, BodyType: &suv},
		{Make: "Honda", Model: "Civic", Year: 2018, Price: 1390000, Mileage: 67400, Fuel: domain.FuelPetrol, BodyType: &sedan},
		{Make: "Tesla", Model: "Model Y", Year: 2023, Price: 4590000, Mileage: 5100, Fuel: domain.FuelElectric, BodyType: &suv},
	}
	for _, c := range cars {
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("seed car %s %s: %v", c.Make, c.Model, err)
		}
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, carts, cars, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
