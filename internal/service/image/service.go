package image

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"cardealer/internal/domain"
	carrepo "cardealer/internal/repository/car"
)

// ErrNoImage is returned when the provider found nothing for a car.
var ErrNoImage = errors.New("no image found")

// FillReport summarizes one backfill pass.
type FillReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// Service backfills missing car images from an external photo provider.
type Service struct {
	cars   carrepo.Repository
	finder Finder
	delay  time.Duration
	logger *log.Logger
}

func New(cars carrepo.Repository, finder Finder, delay time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{cars: cars, finder: finder, delay: delay, logger: logger}
}

// FillMissing scans cars without an image and looks one up for each,
// sequentially. The delay between provider calls is rate-limiting
// courtesy, not a correctness requirement. Lookup failures skip the
// car; the pass carries on and reports totals at the end.
func (s *Service) FillMissing(ctx context.Context) (*FillReport, error) {
	cars, err := s.cars.ListMissingImages(ctx)
	if err != nil {
		return nil, err
	}

	report := &FillReport{Scanned: len(cars)}
	for _, c := range cars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url, err := s.finder.FindCarImage(ctx, c.Make, c.Model, c.Year)
		if err != nil || url == "" {
			continue
		}
		if _, err := s.cars.UpdateImage(ctx, c.CarID, url); err != nil {
			s.logger.Printf("image service: update car_id=%d error=%v", c.CarID, err)
			return nil, err
		}
		report.Updated++
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	s.logger.Printf("image service: backfill scanned=%d updated=%d", report.Scanned, report.Updated)
	return report, nil
}

// Refresh replaces one car's image with a fresh provider lookup.
func (s *Service) Refresh(ctx context.Context, carID int64) (*domain.Car, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	url, err := s.finder.FindCarImage(ctx, car.Make, car.Model, car.Year)
	if err != nil || url == "" {
		return nil, ErrNoImage
	}
	return s.cars.UpdateImage(ctx, carID, url)
}
