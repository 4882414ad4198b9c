package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ebike_admin_backend/internal/models"
)

// SaleRepository defines the interface for sales-ledger database operations.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) error
	GetSales(filters models.SaleFilters) ([]models.Sale, int, error)
	// GetAllSales returns the unpaginated ledger, optionally narrowed to one
	// seller. Reports filter and aggregate over this.
	GetAllSales(sellerID *string) ([]models.Sale, error)
	GetSaleByID(id string) (*models.Sale, error)
	UpdateSale(executor SQLExecutor, id string, status *string, notes *string) error
	DeleteSale(executor SQLExecutor, id string) error
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

const saleColumns = `id, bike_id, bike_name, seller_id, seller_name, shop_name,
	    customer_name, customer_phone, customer_email, quantity, unit_price, total_price,
	    payment_method, status, notes, created_at, updated_at`

func scanSale(row interface{ Scan(dest ...interface{}) error }) (*models.Sale, error) {
	sale := &models.Sale{}
	err := row.Scan(
		&sale.ID, &sale.BikeID, &sale.BikeName, &sale.SellerID, &sale.SellerName, &sale.ShopName,
		&sale.CustomerName, &sale.CustomerPhone, &sale.CustomerEmail,
		&sale.Quantity, &sale.UnitPrice, &sale.TotalPrice,
		&sale.PaymentMethod, &sale.Status, &sale.Notes, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) error {
	query := `INSERT INTO sales
	          (id, bike_id, bike_name, seller_id, seller_name, shop_name,
	           customer_name, customer_phone, customer_email, quantity, unit_price, total_price,
	           payment_method, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	currentTime := time.Now()
	sale.CreatedAt = currentTime
	sale.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		sale.ID, sale.BikeID, sale.BikeName, sale.SellerID, sale.SellerName, sale.ShopName,
		sale.CustomerName, sale.CustomerPhone, sale.CustomerEmail,
		sale.Quantity, sale.UnitPrice, sale.TotalPrice,
		sale.PaymentMethod, sale.Status, sale.Notes, currentTime, currentTime,
	)
	if err != nil {
		return fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *saleRepository) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	sales := []models.Sale{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + saleColumns + `, COUNT(*) OVER() AS total_count FROM sales`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.SellerID != nil {
		conditions = append(conditions, fmt.Sprintf("seller_id = $%d", argCount))
		args = append(args, *filters.SellerID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.From != nil && *filters.From != "" {
		from, err := time.Parse("2006-01-02", *filters.From)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date filter format: %s, expected YYYY-MM-DD", *filters.From)
		}
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCount))
		args = append(args, from)
		argCount++
	}
	if filters.To != nil && *filters.To != "" {
		to, err := time.Parse("2006-01-02", *filters.To)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date filter format: %s, expected YYYY-MM-DD", *filters.To)
		}
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argCount))
		args = append(args, to.AddDate(0, 0, 1))
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		sale := models.Sale{}
		if err := rows.Scan(
			&sale.ID, &sale.BikeID, &sale.BikeName, &sale.SellerID, &sale.SellerName, &sale.ShopName,
			&sale.CustomerName, &sale.CustomerPhone, &sale.CustomerEmail,
			&sale.Quantity, &sale.UnitPrice, &sale.TotalPrice,
			&sale.PaymentMethod, &sale.Status, &sale.Notes, &sale.CreatedAt, &sale.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating sales: %v", ErrDatabaseError, err)
	}
	return sales, totalCount, nil
}

func (r *saleRepository) GetAllSales(sellerID *string) ([]models.Sale, error) {
	sales := []models.Sale{}
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC`
	var args []interface{}
	if sellerID != nil {
		query = `SELECT ` + saleColumns + ` FROM sales WHERE seller_id = $1 ORDER BY created_at DESC`
		args = append(args, *sellerID)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting all sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, *sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales: %v", ErrDatabaseError, err)
	}
	return sales, nil
}

func (r *saleRepository) GetSaleByID(id string) (*models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	sale, err := scanSale(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %s: %v", ErrDatabaseError, id, err)
	}
	return sale, nil
}

func (r *saleRepository) UpdateSale(executor SQLExecutor, id string, status *string, notes *string) error {
	query := `UPDATE sales
	          SET status = COALESCE($1, status), notes = COALESCE($2, notes), updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, status, notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating sale %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepository) DeleteSale(executor SQLExecutor, id string) error {
	query := `DELETE FROM sales WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting sale %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
