package models

import "time"

// Inventory request statuses. "rejected" and "fulfilled" are terminal.
// The approve path fulfills inline, so "approved" normally only appears on
// records written by an older code path; the claim operation drains those.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusFulfilled = "fulfilled"
)

// Inventory request priorities.
const (
	RequestPriorityLow    = "low"
	RequestPriorityMedium = "medium"
	RequestPriorityHigh   = "high"
	RequestPriorityUrgent = "urgent"
)

// InventoryRequest is a seller's ask for catalog stock. Approving it credits
// the seller's shop inventory with ApprovedQuantity units of the bike.
// ApprovedQuantity is not checked against RequestedQuantity anywhere.
type InventoryRequest struct {
	ID                string     `json:"id" db:"id"`
	SellerID          string     `json:"seller_id" db:"seller_id"`
	SellerName        string     `json:"seller_name" db:"seller_name"`
	ShopName          string     `json:"shop_name" db:"shop_name"`
	BikeID            string     `json:"bike_id" db:"bike_id"`
	BikeName          string     `json:"bike_name" db:"bike_name"`
	RequestedQuantity int        `json:"requested_quantity" db:"requested_quantity"`
	ApprovedQuantity  *int       `json:"approved_quantity,omitempty" db:"approved_quantity"`
	Status            string     `json:"status" db:"status"`
	Priority          string     `json:"priority" db:"priority"`
	Notes             *string    `json:"notes,omitempty" db:"notes"`
	AdminNotes        *string    `json:"admin_notes,omitempty" db:"admin_notes"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy       *string    `json:"processed_by,omitempty" db:"processed_by"`
}

// IsValidRequestPriority reports whether priority is one of the known levels.
func IsValidRequestPriority(priority string) bool {
	switch priority {
	case RequestPriorityLow, RequestPriorityMedium, RequestPriorityHigh, RequestPriorityUrgent:
		return true
	default:
		return false
	}
}
