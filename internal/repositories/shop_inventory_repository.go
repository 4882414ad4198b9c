package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"

	"github.com/lib/pq"
)

// ShopInventoryRepository defines the interface for the per-seller stock ledger.
//
// Items are keyed by the composite id sellerID_bikeID. The merge flow is
// lookup-then-insert-or-increment and lives in the service layer; the counter
// updates here are single atomic statements.
type ShopInventoryRepository interface {
	InsertItem(executor SQLExecutor, item *models.ShopInventoryItem) error
	IncrementStock(executor SQLExecutor, id string, quantity int, restockedAt time.Time) error
	// ApplySale decrements shop stock and increments the sold counter in one
	// statement. There is no floor-at-zero guard: callers are expected to have
	// checked stock beforehand, and a stale check can drive stock negative.
	ApplySale(executor SQLExecutor, id string, quantity int) error
	// ApplySaleGuarded is the conditional variant with a stock precondition,
	// used by the atomic-writes mode. Reports whether the update applied.
	ApplySaleGuarded(executor SQLExecutor, id string, quantity int) (bool, error)
	GetItemByID(id string) (*models.ShopInventoryItem, error)
	GetSellerInventory(sellerID string) ([]models.ShopInventoryItem, error)
	GetLowStockItems(sellerID string, threshold int) ([]models.ShopInventoryItem, error)
}

type shopInventoryRepository struct {
	db *sql.DB
}

// NewShopInventoryRepository creates a new instance of ShopInventoryRepository.
func NewShopInventoryRepository(db *sql.DB) ShopInventoryRepository {
	return &shopInventoryRepository{db: db}
}

const shopInventoryColumns = `id, seller_id, bike_id, name, brand, model, category, price, description,
	    motor_power, battery_capacity, range, max_speed, weight, images, status,
	    shop_stock, total_sold, last_restocked, created_at, updated_at`

func scanShopInventoryItem(row interface{ Scan(dest ...interface{}) error }) (*models.ShopInventoryItem, error) {
	item := &models.ShopInventoryItem{}
	var lastRestocked sql.NullTime
	err := row.Scan(
		&item.ID, &item.SellerID, &item.BikeID, &item.Name, &item.Brand, &item.Model,
		&item.Category, &item.Price, &item.Description,
		&item.Specifications.MotorPower, &item.Specifications.BatteryCapacity, &item.Specifications.Range,
		&item.Specifications.MaxSpeed, &item.Specifications.Weight,
		pq.Array(&item.Images), &item.Status,
		&item.ShopStock, &item.TotalSold, &lastRestocked, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastRestocked.Valid {
		t := lastRestocked.Time
		item.LastRestocked = &t
	}
	return item, nil
}

func (r *shopInventoryRepository) InsertItem(executor SQLExecutor, item *models.ShopInventoryItem) error {
	query := `INSERT INTO shop_inventory
	          (id, seller_id, bike_id, name, brand, model, category, price, description,
	           motor_power, battery_capacity, range, max_speed, weight, images, status,
	           shop_stock, total_sold, last_restocked, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	currentTime := time.Now()
	item.CreatedAt = currentTime
	item.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		item.ID, item.SellerID, item.BikeID, item.Name, item.Brand, item.Model,
		item.Category, item.Price, item.Description,
		item.Specifications.MotorPower, item.Specifications.BatteryCapacity, item.Specifications.Range,
		item.Specifications.MaxSpeed, item.Specifications.Weight,
		pq.Array(item.Images), item.Status,
		item.ShopStock, item.TotalSold, item.LastRestocked, currentTime, currentTime,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: shop inventory item %s already exists (constraint: %s)", ErrDuplicateKey, item.ID, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating shop inventory item: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *shopInventoryRepository) IncrementStock(executor SQLExecutor, id string, quantity int, restockedAt time.Time) error {
	query := `UPDATE shop_inventory
	          SET shop_stock = shop_stock + $1, last_restocked = $2, updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, quantity, restockedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: incrementing stock for shop inventory item %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shopInventoryRepository) ApplySale(executor SQLExecutor, id string, quantity int) error {
	query := `UPDATE shop_inventory
	          SET shop_stock = shop_stock - $1, total_sold = total_sold + $2, updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, quantity, quantity, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: applying sale to shop inventory item %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shopInventoryRepository) ApplySaleGuarded(executor SQLExecutor, id string, quantity int) (bool, error) {
	query := `UPDATE shop_inventory
	          SET shop_stock = shop_stock - $1, total_sold = total_sold + $2, updated_at = $3
	          WHERE id = $4 AND shop_stock >= $5`
	result, err := executor.Exec(query, quantity, quantity, time.Now(), id, quantity)
	if err != nil {
		return false, fmt.Errorf("%w: applying guarded sale to shop inventory item %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func (r *shopInventoryRepository) GetItemByID(id string) (*models.ShopInventoryItem, error) {
	query := `SELECT ` + shopInventoryColumns + ` FROM shop_inventory WHERE id = $1`
	item, err := scanShopInventoryItem(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting shop inventory item %s: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *shopInventoryRepository) GetSellerInventory(sellerID string) ([]models.ShopInventoryItem, error) {
	query := `SELECT ` + shopInventoryColumns + `
	          FROM shop_inventory
	          WHERE seller_id = $1 AND status = $2
	          ORDER BY created_at DESC`
	return r.queryItems(query, sellerID, models.BikeStatusActive)
}

func (r *shopInventoryRepository) GetLowStockItems(sellerID string, threshold int) ([]models.ShopInventoryItem, error) {
	query := `SELECT ` + shopInventoryColumns + `
	          FROM shop_inventory
	          WHERE seller_id = $1 AND status = $2 AND shop_stock <= $3
	          ORDER BY shop_stock ASC`
	return r.queryItems(query, sellerID, models.BikeStatusActive, threshold)
}

func (r *shopInventoryRepository) queryItems(query string, args ...interface{}) ([]models.ShopInventoryItem, error) {
	items := []models.ShopInventoryItem{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting shop inventory items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanShopInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning shop inventory item: %v", ErrDatabaseError, err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shop inventory items: %v", ErrDatabaseError, err)
	}
	return items, nil
}
