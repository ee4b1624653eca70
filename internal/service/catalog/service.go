package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"cardealer/internal/domain"
	carrepo "cardealer/internal/repository/car"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Criteria is the raw query string input of a search. Every field is
// optional; unparseable numeric and bodyType values drop their filter
// instead of erroring, while a fuel value outside the known set matches
// no cars.
type Criteria struct {
	BodyType   string
	Fuel       string
	Make       string
	Model      string
	MaxPrice   string
	MinYear    string
	MaxMileage string
	SortBy     string
	PageIndex  string
	PageSize   string
}

// SearchResult is one page plus the independent total count.
type SearchResult struct {
	Items     []domain.Car `json:"items"`
	Total     int          `json:"total"`
	PageIndex int          `json:"pageIndex"`
	PageSize  int          `json:"pageSize"`
}

// CreateCarInput holds an admin car creation payload. Pointer fields
// distinguish absent from zero for required numeric values.
type CreateCarInput struct {
	Make     string  `json:"make"`
	Model    string  `json:"model"`
	Year     *int    `json:"year"`
	Price    *int64  `json:"price"`
	Mileage  *int    `json:"mileage"`
	Fuel     string  `json:"fuel"`
	Color    *string `json:"color"`
	BodyType *string `json:"bodyType"`
	Image    *string `json:"image"`
}

// UpdateCarInput is a partial update: nil fields are untouched.
type UpdateCarInput struct {
	Make     *string `json:"make"`
	Model    *string `json:"model"`
	Year     *int    `json:"year"`
	Price    *int64  `json:"price"`
	Mileage  *int    `json:"mileage"`
	Fuel     *string `json:"fuel"`
	Color    *string `json:"color"`
	BodyType *string `json:"bodyType"`
	Image    *string `json:"image"`
}

// Service is the catalog query engine plus the admin inventory surface.
type Service struct {
	cars carrepo.Repository
}

func New(cars carrepo.Repository) *Service {
	return &Service{cars: cars}
}

func (s *Service) List(ctx context.Context) ([]domain.Car, error) {
	return s.cars.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Car, error) {
	return s.cars.GetByID(ctx, id)
}

func (s *Service) Facets(ctx context.Context) (*carrepo.Facets, error) {
	return s.cars.Facets(ctx)
}

// Search normalizes the raw criteria and runs the filtered, sorted,
// paginated query.
func (s *Service) Search(ctx context.Context, c Criteria) (*SearchResult, error) {
	q := normalize(c)
	// Fuel is an exact-match filter: an unrecognized value yields an
	// empty page, not the unfiltered catalog.
	if f := strings.TrimSpace(c.Fuel); f != "" && q.Fuel == nil {
		return &SearchResult{
			Items:     []domain.Car{},
			PageIndex: q.PageIndex,
			PageSize:  q.PageSize,
		}, nil
	}
	items, total, err := s.cars.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Car{}
	}
	return &SearchResult{
		Items:     items,
		Total:     total,
		PageIndex: q.PageIndex,
		PageSize:  q.PageSize,
	}, nil
}

// normalize applies the query contract: unrecognized body types are
// silently dropped (Search handles unrecognized fuel values before the
// repository is hit), numeric bounds only apply when parseable, unknown
// sort keys fall back to yearDesc, page size clamps to [1,50] with a
// default of 20 and page index clamps to >= 0.
func normalize(c Criteria) carrepo.SearchQuery {
	q := carrepo.SearchQuery{
		Make:  strings.TrimSpace(c.Make),
		Model: strings.TrimSpace(c.Model),
		Sort:  parseSort(c.SortBy),
	}

	if bt, ok := domain.ParseBodyType(c.BodyType); ok {
		q.BodyType = &bt
	}
	if f, ok := domain.ParseFuelType(c.Fuel); ok {
		q.Fuel = &f
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(c.MaxPrice), 10, 64); err == nil && c.MaxPrice != "" {
		q.MaxPrice = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.MinYear)); err == nil && c.MinYear != "" {
		q.MinYear = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.MaxMileage)); err == nil && c.MaxMileage != "" {
		q.MaxMileage = &v
	}

	size := defaultPageSize
	if v, err := strconv.Atoi(strings.TrimSpace(c.PageSize)); err == nil && v != 0 {
		size = v
	}
	if size < 1 {
		size = 1
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	q.PageSize = size

	if v, err := strconv.Atoi(strings.TrimSpace(c.PageIndex)); err == nil && v > 0 {
		q.PageIndex = v
	}

	return q
}

func parseSort(s string) carrepo.SortKey {
	switch carrepo.SortKey(strings.TrimSpace(s)) {
	case carrepo.SortYearAsc:
		return carrepo.SortYearAsc
	case carrepo.SortPriceAsc:
		return carrepo.SortPriceAsc
	case carrepo.SortPriceDesc:
		return carrepo.SortPriceDesc
	case carrepo.SortMileageAsc:
		return carrepo.SortMileageAsc
	case carrepo.SortMileageDesc:
		return carrepo.SortMileageDesc
	default:
		return carrepo.SortYearDesc
	}
}

// CreateCar validates an admin payload and inserts the listing. A blank
// image normalizes to null; an unrecognized body type stores as null.
func (s *Service) CreateCar(ctx context.Context, in CreateCarInput) (*domain.Car, error) {
	if strings.TrimSpace(in.Make) == "" || strings.TrimSpace(in.Model) == "" ||
		in.Year == nil || in.Price == nil || in.Mileage == nil || strings.TrimSpace(in.Fuel) == "" {
		return nil, errors.New("missing required fields")
	}
	fuel, ok := domain.ParseFuelType(in.Fuel)
	if !ok {
		return nil, errors.New("unknown fuel type")
	}

	car := domain.Car{
		Make:    strings.TrimSpace(in.Make),
		Model:   strings.TrimSpace(in.Model),
		Year:    *in.Year,
		Price:   *in.Price,
		Mileage: *in.Mileage,
		Fuel:    fuel,
		Color:   in.Color,
	}
	if in.Image != nil {
		if img := strings.TrimSpace(*in.Image); img != "" {
			car.Image = &img
		}
	}
	if in.BodyType != nil {
		if bt, ok := domain.ParseBodyType(*in.BodyType); ok {
			car.BodyType = &bt
		}
	}
	return s.cars.Create(ctx, car)
}

// UpdateCar applies a partial update. An explicit empty-string image
// clears the stored image; an unrecognized body type clears the column.
func (s *Service) UpdateCar(ctx context.Context, id int64, in UpdateCarInput) (*domain.Car, error) {
	p := carrepo.Patch{
		Make:    in.Make,
		Model:   in.Model,
		Year:    in.Year,
		Price:   in.Price,
		Color:   in.Color,
		Mileage: in.Mileage,
	}
	if in.Fuel != nil {
		fuel, ok := domain.ParseFuelType(*in.Fuel)
		if !ok {
			return nil, errors.New("unknown fuel type")
		}
		p.Fuel = &fuel
	}
	if in.Image != nil {
		p.SetImage = true
		p.Image = in.Image
	}
	if in.BodyType != nil {
		p.SetBodyType = true
		if bt, ok := domain.ParseBodyType(*in.BodyType); ok {
			p.BodyType = &bt
		}
	}
	return s.cars.Update(ctx, id, p)
}

// DeleteCar removes a listing. Cars referenced by order items refuse
// deletion with ErrInUse.
func (s *Service) DeleteCar(ctx context.Context, id int64) error {
	return s.cars.Delete(ctx, id)
}
