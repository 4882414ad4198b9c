package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for the catalog ---
var (
	ErrBikeNotFound = errors.New("bike not found")
	ErrValidation   = errors.New("validation error")
)

// --- DTOs ---

// CreateBikeRequest is the payload for adding a catalog entry.
type CreateBikeRequest struct {
	VehicleCategory string   `json:"vehicle_category"`
	Name            string   `json:"name" binding:"required"`
	Brand           string   `json:"brand" binding:"required"`
	Model           string   `json:"model" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	Price           float64  `json:"price" binding:"required,gt=0"`
	Stock           int      `json:"stock" binding:"gte=0"`
	Description     string   `json:"description"`
	MotorPower      string   `json:"motor_power"`
	BatteryCapacity string   `json:"battery_capacity"`
	Range           string   `json:"range"`
	MaxSpeed        string   `json:"max_speed"`
	Weight          string   `json:"weight"`
	Images          []string `json:"images"`
	Status          string   `json:"status"`
}

// UpdateBikeRequest is the partial-update payload for a catalog entry.
type UpdateBikeRequest struct {
	VehicleCategory *string   `json:"vehicle_category"`
	Name            *string   `json:"name"`
	Brand           *string   `json:"brand"`
	Model           *string   `json:"model"`
	Category        *string   `json:"category"`
	Price           *float64  `json:"price"`
	Stock           *int      `json:"stock"`
	Description     *string   `json:"description"`
	MotorPower      *string   `json:"motor_power"`
	BatteryCapacity *string   `json:"battery_capacity"`
	Range           *string   `json:"range"`
	MaxSpeed        *string   `json:"max_speed"`
	Weight          *string   `json:"weight"`
	Images          *[]string `json:"images"`
	Status          *string   `json:"status"`
}

// UpdateBikeStockRequest sets the master stock counter.
type UpdateBikeStockRequest struct {
	Stock int `json:"stock" binding:"gte=0"`
}

// --- BikeService Interface ---
type BikeService interface {
	CreateBike(req CreateBikeRequest) (*models.Bike, error)
	GetBikes() ([]models.Bike, error)
	GetBikeByID(id string) (*models.Bike, error)
	UpdateBike(id string, req UpdateBikeRequest) (*models.Bike, error)
	UpdateBikeStock(id string, req UpdateBikeStockRequest) (*models.Bike, error)
	DeleteBike(id string) error
}

// --- bikeService Implementation ---
type bikeService struct {
	bikeRepo repositories.BikeRepository
	db       *sql.DB
}

// NewBikeService creates a new instance of BikeService.
func NewBikeService(repo repositories.BikeRepository, db *sql.DB) BikeService {
	return &bikeService{bikeRepo: repo, db: db}
}

func (s *bikeService) CreateBike(req CreateBikeRequest) (*models.Bike, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: bike name cannot be empty", ErrValidation)
	}
	if !models.IsValidBikeCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown bike category %q", ErrValidation, req.Category)
	}
	status := req.Status
	if status == "" {
		status = models.BikeStatusActive
	}
	if !models.IsValidBikeStatus(status) {
		return nil, fmt.Errorf("%w: unknown bike status %q", ErrValidation, status)
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	vehicleCategory := req.VehicleCategory
	if vehicleCategory == "" {
		vehicleCategory = "e-bike"
	}

	bike := &models.Bike{
		ID:              uuid.NewString(),
		VehicleCategory: vehicleCategory,
		Name:            req.Name,
		Brand:           req.Brand,
		Model:           req.Model,
		Category:        req.Category,
		Price:           req.Price,
		Stock:           req.Stock,
		Description:     req.Description,
		Specifications: models.BikeSpecifications{
			MotorPower:      req.MotorPower,
			BatteryCapacity: req.BatteryCapacity,
			Range:           req.Range,
			MaxSpeed:        req.MaxSpeed,
			Weight:          req.Weight,
		},
		Images: images,
		Status: status,
	}

	if err := s.bikeRepo.CreateBike(s.db, bike); err != nil {
		return nil, fmt.Errorf("failed to create bike: %w", err)
	}
	return s.bikeRepo.GetBikeByID(bike.ID)
}

func (s *bikeService) GetBikes() ([]models.Bike, error) {
	bikes, err := s.bikeRepo.GetBikes()
	if err != nil {
		return nil, fmt.Errorf("failed to get bikes: %w", err)
	}
	return bikes, nil
}

func (s *bikeService) GetBikeByID(id string) (*models.Bike, error) {
	bike, err := s.bikeRepo.GetBikeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to get bike by ID: %w", err)
	}
	return bike, nil
}

func (s *bikeService) UpdateBike(id string, req UpdateBikeRequest) (*models.Bike, error) {
	bike, err := s.bikeRepo.GetBikeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to find bike for update: %w", err)
	}

	if req.VehicleCategory != nil {
		bike.VehicleCategory = *req.VehicleCategory
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: bike name cannot be empty if provided", ErrValidation)
		}
		bike.Name = *req.Name
	}
	if req.Brand != nil {
		bike.Brand = *req.Brand
	}
	if req.Model != nil {
		bike.Model = *req.Model
	}
	if req.Category != nil {
		if !models.IsValidBikeCategory(*req.Category) {
			return nil, fmt.Errorf("%w: unknown bike category %q", ErrValidation, *req.Category)
		}
		bike.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
		}
		bike.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		bike.Stock = *req.Stock
	}
	if req.Description != nil {
		bike.Description = *req.Description
	}
	if req.MotorPower != nil {
		bike.Specifications.MotorPower = *req.MotorPower
	}
	if req.BatteryCapacity != nil {
		bike.Specifications.BatteryCapacity = *req.BatteryCapacity
	}
	if req.Range != nil {
		bike.Specifications.Range = *req.Range
	}
	if req.MaxSpeed != nil {
		bike.Specifications.MaxSpeed = *req.MaxSpeed
	}
	if req.Weight != nil {
		bike.Specifications.Weight = *req.Weight
	}
	if req.Images != nil {
		bike.Images = *req.Images
	}
	if req.Status != nil {
		if !models.IsValidBikeStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown bike status %q", ErrValidation, *req.Status)
		}
		bike.Status = *req.Status
	}

	if err := s.bikeRepo.UpdateBike(s.db, bike); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to update bike: %w", err)
	}
	return s.bikeRepo.GetBikeByID(id)
}

// UpdateBikeStock sets the master stock counter and derives the status from it:
// zero stock flips the entry to out_of_stock, anything else back to active.
// Master stock is informational only; shop-level sales never touch it.
func (s *bikeService) UpdateBikeStock(id string, req UpdateBikeStockRequest) (*models.Bike, error) {
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	status := models.BikeStatusActive
	if req.Stock == 0 {
		status = models.BikeStatusOutOfStock
	}
	if err := s.bikeRepo.UpdateBikeStock(s.db, id, req.Stock, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to update bike stock: %w", err)
	}
	return s.bikeRepo.GetBikeByID(id)
}

func (s *bikeService) DeleteBike(id string) error {
	err := s.bikeRepo.DeleteBike(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBikeNotFound
		}
		return fmt.Errorf("failed to delete bike: %w", err)
	}
	return nil
}
