package catalog

import (
	"context"
	"errors"
	"testing"

	"cardealer/internal/domain"
	carrepo "cardealer/internal/repository/car"
)

type stubRepo struct {
	lastSearch  carrepo.SearchQuery
	searchCalls int
	searchItems []domain.Car
	searchTotal int
	searchErr   error
	lastCreate  domain.Car
	created     *domain.Car
	createErr   error
	lastPatch   carrepo.Patch
	updated     *domain.Car
	updateErr   error
	deleteErr   error
}

func (s *stubRepo) List(_ context.Context) ([]domain.Car, error) { return nil, nil }

func (s *stubRepo) GetByID(_ context.Context, _ int64) (*domain.Car, error) { return nil, nil }

func (s *stubRepo) GetByIDs(_ context.Context, _ []int64) ([]domain.Car, error) { return nil, nil }

func (s *stubRepo) Search(_ context.Context, q carrepo.SearchQuery) ([]domain.Car, int, error) {
	s.lastSearch = q
	s.searchCalls++
	return s.searchItems, s.searchTotal, s.searchErr
}

func (s *stubRepo) Create(_ context.Context, c domain.Car) (*domain.Car, error) {
	s.lastCreate = c
	if s.created != nil || s.createErr != nil {
		return s.created, s.createErr
	}
	return &c, nil
}

func (s *stubRepo) Update(_ context.Context, _ int64, p carrepo.Patch) (*domain.Car, error) {
	s.lastPatch = p
	return s.updated, s.updateErr
}

func (s *stubRepo) Delete(_ context.Context, _ int64) error { return s.deleteErr }

func (s *stubRepo) ListMissingImages(_ context.Context) ([]domain.Car, error) { return nil, nil }

func (s *stubRepo) UpdateImage(_ context.Context, _ int64, _ string) (*domain.Car, error) {
	return nil, nil
}

func (s *stubRepo) Facets(_ context.Context) (*carrepo.Facets, error) { return nil, nil }

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func TestSearchDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	result, err := svc.Search(context.Background(), Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := repo.lastSearch
	if q.Sort != carrepo.SortYearDesc {
		t.Fatalf("expected yearDesc default, got %s", q.Sort)
	}
	if q.PageSize != 20 || q.PageIndex != 0 {
		t.Fatalf("expected page defaults 20/0, got %d/%d", q.PageSize, q.PageIndex)
	}
	if result.Items == nil {
		t.Fatalf("expected empty slice, not nil items")
	}
}

func TestSearchPageSizeClamps(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	if _, err := svc.Search(context.Background(), Criteria{PageSize: "1000"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch.PageSize != 50 {
		t.Fatalf("expected page size clamped to 50, got %d", repo.lastSearch.PageSize)
	}

	if _, err := svc.Search(context.Background(), Criteria{PageSize: "-3", PageIndex: "-2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch.PageSize != 1 {
		t.Fatalf("expected page size clamped to 1, got %d", repo.lastSearch.PageSize)
	}
	if repo.lastSearch.PageIndex != 0 {
		t.Fatalf("expected negative page index clamped to 0, got %d", repo.lastSearch.PageIndex)
	}
}

func TestSearchUnknownSortFallsBack(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	if _, err := svc.Search(context.Background(), Criteria{SortBy: "priceSideways"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch.Sort != carrepo.SortYearDesc {
		t.Fatalf("expected yearDesc fallback, got %s", repo.lastSearch.Sort)
	}

	if _, err := svc.Search(context.Background(), Criteria{SortBy: "mileageAsc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch.Sort != carrepo.SortMileageAsc {
		t.Fatalf("expected mileageAsc, got %s", repo.lastSearch.Sort)
	}
}

func TestSearchDropsUnparseableFilters(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.Search(context.Background(), Criteria{
		BodyType:   "Spaceship",
		Fuel:       "electric",
		MaxPrice:   "not-a-number",
		MinYear:    "2019",
		MaxMileage: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := repo.lastSearch
	if q.BodyType != nil {
		t.Fatalf("unknown body type should drop the filter, got %v", *q.BodyType)
	}
	if q.Fuel == nil || *q.Fuel != domain.FuelElectric {
		t.Fatalf("expected Electric fuel filter, got %v", q.Fuel)
	}
	if q.MaxPrice != nil {
		t.Fatalf("unparseable max price should drop the filter")
	}
	if q.MinYear == nil || *q.MinYear != 2019 {
		t.Fatalf("expected min year 2019, got %v", q.MinYear)
	}
	if q.MaxMileage != nil {
		t.Fatalf("blank max mileage should drop the filter")
	}
}

func TestSearchUnknownFuelMatchesNothing(t *testing.T) {
	repo := &stubRepo{searchItems: []domain.Car{{CarID: 1}}, searchTotal: 4}
	svc := New(repo)

	result, err := svc.Search(context.Background(), Criteria{Fuel: "Banana", PageSize: "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || result.Items == nil || len(result.Items) != 0 {
		t.Fatalf("expected empty result for unknown fuel, got %+v", result)
	}
	if result.PageSize != 10 || result.PageIndex != 0 {
		t.Fatalf("expected normalized paging in response, got %d/%d", result.PageSize, result.PageIndex)
	}
	if repo.searchCalls != 0 {
		t.Fatalf("repository must not be queried for an unknown fuel")
	}
}

func TestCreateCarValidation(t *testing.T) {
	svc := New(&stubRepo{})

	_, err := svc.CreateCar(context.Background(), CreateCarInput{Make: "Toyota"})
	if err == nil {
		t.Fatalf("expected missing-fields error")
	}

	_, err = svc.CreateCar(context.Background(), CreateCarInput{
		Make: "Toyota", Model: "Corolla",
		Year: intPtr(2021), Price: int64Ptr(1850000), Mileage: intPtr(24000),
		Fuel: "Steam",
	})
	if err == nil {
		t.Fatalf("expected unknown fuel error")
	}
}

func TestCreateCarNormalizesOptionalFields(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.CreateCar(context.Background(), CreateCarInput{
		Make: " Toyota ", Model: "Corolla",
		Year: intPtr(2021), Price: int64Ptr(1850000), Mileage: intPtr(24000),
		Fuel:     "petrol",
		BodyType: strPtr("Spaceship"),
		Image:    strPtr("   "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := repo.lastCreate
	if c.Make != "Toyota" {
		t.Fatalf("expected trimmed make, got %q", c.Make)
	}
	if c.Fuel != domain.FuelPetrol {
		t.Fatalf("expected canonical fuel, got %s", c.Fuel)
	}
	if c.BodyType != nil {
		t.Fatalf("unknown body type should store as null, got %v", *c.BodyType)
	}
	if c.Image != nil {
		t.Fatalf("blank image should store as null, got %v", *c.Image)
	}
}

func TestUpdateCarImageAndBodyTypeFlags(t *testing.T) {
	repo := &stubRepo{updated: &domain.Car{CarID: 1}}
	svc := New(repo)

	_, err := svc.UpdateCar(context.Background(), 1, UpdateCarInput{
		Image:    strPtr(""),
		BodyType: strPtr("Spaceship"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := repo.lastPatch
	if !p.SetImage || p.Image == nil || *p.Image != "" {
		t.Fatalf("expected explicit image clear, got %+v", p)
	}
	if !p.SetBodyType || p.BodyType != nil {
		t.Fatalf("expected body type cleared to null, got %+v", p)
	}

	// Absent fields leave their flags unset.
	_, err = svc.UpdateCar(context.Background(), 1, UpdateCarInput{Make: strPtr("Mazda")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastPatch.SetImage || repo.lastPatch.SetBodyType {
		t.Fatalf("absent image/bodyType must not touch the columns")
	}
}

func TestUpdateCarUnknownFuel(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.UpdateCar(context.Background(), 1, UpdateCarInput{Fuel: strPtr("Steam")}); err == nil {
		t.Fatalf("expected unknown fuel error")
	}
}

func TestDeleteCarPassesThroughErrInUse(t *testing.T) {
	svc := New(&stubRepo{deleteErr: domain.ErrInUse})
	if err := svc.DeleteCar(context.Background(), 1); !errors.Is(err, domain.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}
