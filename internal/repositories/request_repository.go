package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ebike_admin_backend/internal/models"

	"github.com/lib/pq"
)

// RequestRepository defines the interface for inventory-request database operations.
type RequestRepository interface {
	CreateRequest(executor SQLExecutor, request *models.InventoryRequest) error
	GetRequests() ([]models.InventoryRequest, error)
	GetPendingRequests() ([]models.InventoryRequest, error)
	GetRequestsBySeller(sellerID string) ([]models.InventoryRequest, error)
	GetRequestByID(id string) (*models.InventoryRequest, error)
	// MarkProcessed stamps a terminal decision on the request. approvedQuantity
	// is set on approval and left nil on rejection.
	MarkProcessed(executor SQLExecutor, id, status string, approvedQuantity *int, adminNotes, processedBy *string, processedAt time.Time) error
	// MarkProcessedIfStatusIn is the status-guarded variant: it applies the same
	// update only when the current status is one of fromStatuses, reporting
	// whether a row transitioned. Used by the atomic-writes mode to close the
	// duplicate-fulfillment window.
	MarkProcessedIfStatusIn(executor SQLExecutor, id, status string, approvedQuantity *int, adminNotes, processedBy *string, processedAt time.Time, fromStatuses []string) (bool, error)
	MarkFulfilled(executor SQLExecutor, id string) error
	DeleteRequest(executor SQLExecutor, id string) error
	CountPendingRequests() (int, error)
}

type requestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sql.DB) RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, seller_id, seller_name, shop_name, bike_id, bike_name,
	    requested_quantity, approved_quantity, status, priority, notes, admin_notes,
	    created_at, updated_at, processed_at, processed_by`

func scanRequest(row interface{ Scan(dest ...interface{}) error }) (*models.InventoryRequest, error) {
	request := &models.InventoryRequest{}
	var approvedQuantity sql.NullInt64
	var processedAt sql.NullTime
	err := row.Scan(
		&request.ID, &request.SellerID, &request.SellerName, &request.ShopName,
		&request.BikeID, &request.BikeName,
		&request.RequestedQuantity, &approvedQuantity, &request.Status, &request.Priority,
		&request.Notes, &request.AdminNotes,
		&request.CreatedAt, &request.UpdatedAt, &processedAt, &request.ProcessedBy,
	)
	if err != nil {
		return nil, err
	}
	if approvedQuantity.Valid {
		qty := int(approvedQuantity.Int64)
		request.ApprovedQuantity = &qty
	}
	if processedAt.Valid {
		t := processedAt.Time
		request.ProcessedAt = &t
	}
	return request, nil
}

func (r *requestRepository) CreateRequest(executor SQLExecutor, request *models.InventoryRequest) error {
	query := `INSERT INTO inventory_requests
	          (id, seller_id, seller_name, shop_name, bike_id, bike_name,
	           requested_quantity, status, priority, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	currentTime := time.Now()
	request.CreatedAt = currentTime
	request.UpdatedAt = currentTime

	_, err := executor.Exec(query,
		request.ID, request.SellerID, request.SellerName, request.ShopName,
		request.BikeID, request.BikeName,
		request.RequestedQuantity, request.Status, request.Priority, request.Notes,
		currentTime, currentTime,
	)
	if err != nil {
		return fmt.Errorf("%w: creating inventory request: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *requestRepository) getRequestsWhere(where string, args ...interface{}) ([]models.InventoryRequest, error) {
	requests := []models.InventoryRequest{}
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + requestColumns + ` FROM inventory_requests`)
	if where != "" {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(where)
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting inventory requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning inventory request: %v", ErrDatabaseError, err)
		}
		requests = append(requests, *request)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory requests: %v", ErrDatabaseError, err)
	}
	return requests, nil
}

func (r *requestRepository) GetRequests() ([]models.InventoryRequest, error) {
	return r.getRequestsWhere("")
}

func (r *requestRepository) GetPendingRequests() ([]models.InventoryRequest, error) {
	return r.getRequestsWhere("status = $1", models.RequestStatusPending)
}

func (r *requestRepository) GetRequestsBySeller(sellerID string) ([]models.InventoryRequest, error) {
	return r.getRequestsWhere("seller_id = $1", sellerID)
}

func (r *requestRepository) GetRequestByID(id string) (*models.InventoryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM inventory_requests WHERE id = $1`
	request, err := scanRequest(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting inventory request by ID %s: %v", ErrDatabaseError, id, err)
	}
	return request, nil
}

func (r *requestRepository) MarkProcessed(executor SQLExecutor, id, status string, approvedQuantity *int, adminNotes, processedBy *string, processedAt time.Time) error {
	query := `UPDATE inventory_requests
	          SET status = $1, approved_quantity = $2, admin_notes = $3, processed_by = $4,
	              processed_at = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query, status, nullableInt(approvedQuantity), adminNotes, processedBy, processedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: marking inventory request %s as %s: %v", ErrDatabaseError, id, status, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestRepository) MarkProcessedIfStatusIn(executor SQLExecutor, id, status string, approvedQuantity *int, adminNotes, processedBy *string, processedAt time.Time, fromStatuses []string) (bool, error) {
	query := `UPDATE inventory_requests
	          SET status = $1, approved_quantity = $2, admin_notes = $3, processed_by = $4,
	              processed_at = $5, updated_at = $6
	          WHERE id = $7 AND status = ANY($8)`
	result, err := executor.Exec(query, status, nullableInt(approvedQuantity), adminNotes, processedBy, processedAt, time.Now(), id, pq.Array(fromStatuses))
	if err != nil {
		return false, fmt.Errorf("%w: conditionally marking inventory request %s as %s: %v", ErrDatabaseError, id, status, err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func (r *requestRepository) MarkFulfilled(executor SQLExecutor, id string) error {
	query := `UPDATE inventory_requests SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, models.RequestStatusFulfilled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: marking inventory request %s as fulfilled: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestRepository) DeleteRequest(executor SQLExecutor, id string) error {
	query := `DELETE FROM inventory_requests WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting inventory request %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestRepository) CountPendingRequests() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM inventory_requests WHERE status = $1`, models.RequestStatusPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting pending inventory requests: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
