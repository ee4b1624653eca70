package car

import (
	"context"

	"cardealer/internal/domain"
)

// SortKey selects one of the whitelisted orderings. The repository
// maps keys to ORDER BY clauses itself so no caller-supplied string
// ever reaches the SQL text.
type SortKey string

const (
	SortYearDesc    SortKey = "yearDesc"
	SortYearAsc     SortKey = "yearAsc"
	SortPriceAsc    SortKey = "priceAsc"
	SortPriceDesc   SortKey = "priceDesc"
	SortMileageAsc  SortKey = "mileageAsc"
	SortMileageDesc SortKey = "mileageDesc"
)

// SearchQuery is a fully normalized search: enums parsed, bounds
// numeric, page already clamped.
type SearchQuery struct {
	BodyType   *domain.BodyType
	Fuel       *domain.FuelType
	Make       string
	Model      string
	MaxPrice   *int64
	MinYear    *int
	MaxMileage *int
	Sort       SortKey
	PageIndex  int
	PageSize   int
}

// Patch updates only the fields whose pointers are set. SetImage and
// SetBodyType distinguish "absent from payload" from "present and
// null": a present-but-blank image clears the column, an unrecognized
// body type stores NULL.
type Patch struct {
	Make        *string
	Model       *string
	Year        *int
	Price       *int64
	Color       *string
	Mileage     *int
	Fuel        *domain.FuelType
	SetImage    bool
	Image       *string
	SetBodyType bool
	BodyType    *domain.BodyType
}

// Facets are inventory counts grouped by body type and fuel.
type Facets struct {
	Total  int            `json:"total"`
	ByBody map[string]int `json:"byBody"`
	ByFuel map[string]int `json:"byFuel"`
}

type Repository interface {
	List(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Car, error)
	Search(ctx context.Context, q SearchQuery) ([]domain.Car, int, error)
	Create(ctx context.Context, c domain.Car) (*domain.Car, error)
	Update(ctx context.Context, id int64, p Patch) (*domain.Car, error)
	Delete(ctx context.Context, id int64) error
	ListMissingImages(ctx context.Context) ([]domain.Car, error)
	UpdateImage(ctx context.Context, id int64, url string) (*domain.Car, error)
	Facets(ctx context.Context) (*Facets, error)
}
