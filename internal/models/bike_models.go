package models

import "time"

// Bike categories.
const (
	BikeCategoryMountain = "mountain"
	BikeCategoryRoad     = "road"
	BikeCategoryCity     = "city"
	BikeCategoryHybrid   = "hybrid"
	BikeCategoryElectric = "electric"
	BikeCategoryFolding  = "folding"
)

// Bike statuses.
const (
	BikeStatusActive     = "active"
	BikeStatusInactive   = "inactive"
	BikeStatusOutOfStock = "out_of_stock"
)

// BikeSpecifications holds the free-text spec sheet of a model.
type BikeSpecifications struct {
	MotorPower      string `json:"motor_power" db:"motor_power"`
	BatteryCapacity string `json:"battery_capacity" db:"battery_capacity"`
	Range           string `json:"range" db:"range"`
	MaxSpeed        string `json:"max_speed" db:"max_speed"`
	Weight          string `json:"weight" db:"weight"`
}

// Bike represents a catalog entry: the master list of models available
// system-wide, owned by admins. The Stock field is the master stock counter;
// it is informational and is never decremented by shop-level sales.
type Bike struct {
	ID              string             `json:"id" db:"id"`
	VehicleCategory string             `json:"vehicle_category" db:"vehicle_category"`
	Name            string             `json:"name" db:"name"`
	Brand           string             `json:"brand" db:"brand"`
	Model           string             `json:"model" db:"model"`
	Category        string             `json:"category" db:"category"`
	Price           float64            `json:"price" db:"price"`
	Stock           int                `json:"stock" db:"stock"`
	Description     string             `json:"description" db:"description"`
	Specifications  BikeSpecifications `json:"specifications"`
	Images          []string           `json:"images"`
	Status          string             `json:"status" db:"status"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`
}

// IsValidBikeCategory reports whether category is one of the known categories.
func IsValidBikeCategory(category string) bool {
	switch category {
	case BikeCategoryMountain, BikeCategoryRoad, BikeCategoryCity,
		BikeCategoryHybrid, BikeCategoryElectric, BikeCategoryFolding:
		return true
	default:
		return false
	}
}

// IsValidBikeStatus reports whether status is one of the known statuses.
func IsValidBikeStatus(status string) bool {
	switch status {
	case BikeStatusActive, BikeStatusInactive, BikeStatusOutOfStock:
		return true
	default:
		return false
	}
}
