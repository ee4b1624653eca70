package domain

import (
	"strings"
	"time"
)

// FuelType is the closed set of accepted fuel values.
type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelHybrid   FuelType = "Hybrid"
	FuelElectric FuelType = "Electric"
)

var fuelTypes = []FuelType{FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric}

// ParseFuelType matches s against the known fuel types, ignoring case.
// ok is false for unrecognized values; the caller decides whether that
// means "drop the filter" or "store as null".
func ParseFuelType(s string) (FuelType, bool) {
	for _, f := range fuelTypes {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

// BodyType is the closed set of accepted body styles.
type BodyType string

const (
	BodySedan     BodyType = "Sedan"
	BodyHatchback BodyType = "Hatchback"
	BodySUV       BodyType = "SUV"
	BodyCoupe     BodyType = "Coupe"
	BodyCabrio    BodyType = "Cabrio"
	BodyWagon     BodyType = "Wagon"
	BodyPickup    BodyType = "Pickup"
	BodyVan       BodyType = "Van"
	BodyMPV       BodyType = "MPV"
	BodyCrossover BodyType = "Crossover"
)

var bodyTypes = []BodyType{
	BodySedan, BodyHatchback, BodySUV, BodyCoupe, BodyCabrio,
	BodyWagon, BodyPickup, BodyVan, BodyMPV, BodyCrossover,
}

// ParseBodyType matches s against the known body types, ignoring case.
func ParseBodyType(s string) (BodyType, bool) {
	for _, b := range bodyTypes {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, true
		}
	}
	return "", false
}

// Car is a single inventory listing.
type Car struct {
	CarID     int64     `json:"carId"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Price     int64     `json:"price"`
	Mileage   int       `json:"mileage"`
	Fuel      FuelType  `json:"fuel"`
	Color     *string   `json:"color"`
	BodyType  *BodyType `json:"bodyType"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}
