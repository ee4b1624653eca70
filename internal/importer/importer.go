package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cardealer/internal/domain"
)

type CarWriter interface {
	Create(ctx context.Context, c domain.Car) (*domain.Car, error)
}

// CSVImporter reads inventory exports and inserts them as listings.
// Expected headers: make, model, year, price, mileage, fuel, color,
// bodyType, image. Column order does not matter; unknown columns are
// ignored.
type CSVImporter struct {
	reader  *csv.Reader
	carRepo CarWriter
}

func NewCSVImporter(r io.Reader, repo CarWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:  csvr,
		carRepo: repo,
	}
}

// Run parses the CSV and inserts one car per row. It stops on the
// first invalid row and reports how many rows made it in.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var imported int
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		car, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if car == nil {
			continue
		}

		if _, err := i.carRepo.Create(ctx, *car); err != nil {
			return imported, fmt.Errorf("line %d: insert %s %s: %w", line, car.Make, car.Model, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (*domain.Car, error) {
	mk := pick(record, index, "make")
	model := pick(record, index, "model")
	if mk == "" && model == "" {
		return nil, nil // blank row
	}
	if mk == "" || model == "" {
		return nil, errors.New("make and model are required")
	}

	year, err := strconv.Atoi(pick(record, index, "year"))
	if err != nil {
		return nil, fmt.Errorf("invalid year for %s %s", mk, model)
	}
	price, err := strconv.ParseInt(pick(record, index, "price"), 10, 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("invalid price for %s %s", mk, model)
	}

	mileage := 0
	if v := pick(record, index, "mileage"); v != "" {
		if mileage, err = strconv.Atoi(v); err != nil || mileage < 0 {
			return nil, fmt.Errorf("invalid mileage for %s %s", mk, model)
		}
	}

	fuel, ok := domain.ParseFuelType(pick(record, index, "fuel"))
	if !ok {
		return nil, fmt.Errorf("unknown fuel %q for %s %s", pick(record, index, "fuel"), mk, model)
	}

	car := domain.Car{
		Make:    mk,
		Model:   model,
		Year:    year,
		Price:   price,
		Mileage: mileage,
		Fuel:    fuel,
	}
	if v := pick(record, index, "color"); v != "" {
		car.Color = &v
	}
	// An unrecognized body type is kept as a car without one rather
	// than rejecting the row.
	if bt, ok := domain.ParseBodyType(pick(record, index, "bodyType")); ok {
		car.BodyType = &bt
	}
	if v := pick(record, index, "image"); v != "" {
		car.Image = &v
	}
	return &car, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
