package models

import "time"

// ShopInventoryItem is the per-seller stock ledger entry for one bike model.
// It is keyed by the deterministic composite id sellerID_bikeID and seeded
// with a snapshot of the catalog bike at first fulfillment. The snapshot is
// frozen at that point: later catalog edits do not propagate here.
//
// ShopStock is the shop-level counter, distinct from the catalog's master
// stock. TotalSold accumulates units sold from this shop.
type ShopInventoryItem struct {
	ID             string             `json:"id" db:"id"`
	SellerID       string             `json:"seller_id" db:"seller_id"`
	BikeID         string             `json:"bike_id" db:"bike_id"`
	Name           string             `json:"name" db:"name"`
	Brand          string             `json:"brand" db:"brand"`
	Model          string             `json:"model" db:"model"`
	Category       string             `json:"category" db:"category"`
	Price          float64            `json:"price" db:"price"`
	Description    string             `json:"description" db:"description"`
	Specifications BikeSpecifications `json:"specifications"`
	Images         []string           `json:"images"`
	Status         string             `json:"status" db:"status"`
	ShopStock      int                `json:"shop_stock" db:"shop_stock"`
	TotalSold      int                `json:"total_sold" db:"total_sold"`
	LastRestocked  *time.Time         `json:"last_restocked,omitempty" db:"last_restocked"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// ShopInventoryItemID builds the composite ledger key for a (seller, bike) pair.
func ShopInventoryItemID(sellerID, bikeID string) string {
	return sellerID + "_" + bikeID
}

// InventoryStats summarizes a seller's ledger for their dashboard.
type InventoryStats struct {
	TotalItems      int `json:"total_items"`
	TotalStock      int `json:"total_stock"`
	TotalSold       int `json:"total_sold"`
	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
}
