package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"

	"github.com/lib/pq"
)

// BikeRepository defines the interface for catalog-related database operations.
type BikeRepository interface {
	CreateBike(executor SQLExecutor, bike *models.Bike) error
	GetBikes() ([]models.Bike, error)
	GetBikeByID(id string) (*models.Bike, error)
	UpdateBike(executor SQLExecutor, bike *models.Bike) error
	UpdateBikeStock(executor SQLExecutor, id string, stock int, status string) error
	DeleteBike(executor SQLExecutor, id string) error
	CountBikes() (int, error)
	CountLowStockBikes(threshold int) (int, error)
}

type bikeRepository struct {
	db *sql.DB
}

// NewBikeRepository creates a new instance of BikeRepository.
func NewBikeRepository(db *sql.DB) BikeRepository {
	return &bikeRepository{db: db}
}

const bikeColumns = `id, vehicle_category, name, brand, model, category, price, stock, description,
	    motor_power, battery_capacity, range, max_speed, weight, images, status, created_at, updated_at`

func scanBike(row interface{ Scan(dest ...interface{}) error }) (*models.Bike, error) {
	bike := &models.Bike{}
	err := row.Scan(
		&bike.ID, &bike.VehicleCategory, &bike.Name, &bike.Brand, &bike.Model, &bike.Category,
		&bike.Price, &bike.Stock, &bike.Description,
		&bike.Specifications.MotorPower, &bike.Specifications.BatteryCapacity, &bike.Specifications.Range,
		&bike.Specifications.MaxSpeed, &bike.Specifications.Weight,
		pq.Array(&bike.Images), &bike.Status, &bike.CreatedAt, &bike.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bike, nil
}

func (r *bikeRepository) CreateBike(executor SQLExecutor, bike *models.Bike) error {
	query := `INSERT INTO bikes
	          (id, vehicle_category, name, brand, model, category, price, stock, description,
	           motor_power, battery_capacity, range, max_speed, weight, images, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	currentTime := time.Now()
	bike.CreatedAt = currentTime
	bike.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		bike.ID, bike.VehicleCategory, bike.Name, bike.Brand, bike.Model, bike.Category,
		bike.Price, bike.Stock, bike.Description,
		bike.Specifications.MotorPower, bike.Specifications.BatteryCapacity, bike.Specifications.Range,
		bike.Specifications.MaxSpeed, bike.Specifications.Weight,
		pq.Array(bike.Images), bike.Status, currentTime, currentTime,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: creating bike (constraint: %s): %v", ErrDuplicateKey, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: creating bike: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *bikeRepository) GetBikes() ([]models.Bike, error) {
	bikes := []models.Bike{}
	query := `SELECT ` + bikeColumns + ` FROM bikes ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting bikes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		bike, err := scanBike(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning bike: %v", ErrDatabaseError, err)
		}
		bikes = append(bikes, *bike)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating bikes: %v", ErrDatabaseError, err)
	}
	return bikes, nil
}

func (r *bikeRepository) GetBikeByID(id string) (*models.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE id = $1`
	bike, err := scanBike(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting bike by ID %s: %v", ErrDatabaseError, id, err)
	}
	return bike, nil
}

func (r *bikeRepository) UpdateBike(executor SQLExecutor, bike *models.Bike) error {
	query := `UPDATE bikes SET
	            vehicle_category = $1, name = $2, brand = $3, model = $4, category = $5,
	            price = $6, stock = $7, description = $8,
	            motor_power = $9, battery_capacity = $10, range = $11, max_speed = $12, weight = $13,
	            images = $14, status = $15, updated_at = $16
	          WHERE id = $17`
	result, err := executor.Exec(query,
		bike.VehicleCategory, bike.Name, bike.Brand, bike.Model, bike.Category,
		bike.Price, bike.Stock, bike.Description,
		bike.Specifications.MotorPower, bike.Specifications.BatteryCapacity, bike.Specifications.Range,
		bike.Specifications.MaxSpeed, bike.Specifications.Weight,
		pq.Array(bike.Images), bike.Status, time.Now(), bike.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating bike ID %s: %v", ErrDatabaseError, bike.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bikeRepository) UpdateBikeStock(executor SQLExecutor, id string, stock int, status string) error {
	query := `UPDATE bikes SET stock = $1, status = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, stock, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating stock for bike ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bikeRepository) DeleteBike(executor SQLExecutor, id string) error {
	query := `DELETE FROM bikes WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting bike ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bikeRepository) CountBikes() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bikes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting bikes: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *bikeRepository) CountLowStockBikes(threshold int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bikes WHERE stock <= $1`, threshold).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting low stock bikes: %v", ErrDatabaseError, err)
	}
	return count, nil
}
