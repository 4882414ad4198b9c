package models

import "time"

// Payment methods.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodFinancing    = "financing"
)

// Sale statuses.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Sale is a recorded transaction. BikeID references the seller's shop
// inventory item (the composite sellerID_bikeID key), not the catalog entry:
// once stock has been claimed into a shop, sales operate on the shop-level
// record. Creating a sale decrements that item's ShopStock and increments
// its TotalSold.
type Sale struct {
	ID            string    `json:"id" db:"id"`
	BikeID        string    `json:"bike_id" db:"bike_id"`
	BikeName      string    `json:"bike_name" db:"bike_name"`
	SellerID      string    `json:"seller_id" db:"seller_id"`
	SellerName    string    `json:"seller_name" db:"seller_name"`
	ShopName      string    `json:"shop_name" db:"shop_name"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerPhone string    `json:"customer_phone" db:"customer_phone"`
	CustomerEmail *string   `json:"customer_email,omitempty" db:"customer_email"`
	Quantity      int       `json:"quantity" db:"quantity"`
	UnitPrice     float64   `json:"unit_price" db:"unit_price"`
	TotalPrice    float64   `json:"total_price" db:"total_price"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	Status        string    `json:"status" db:"status"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// SaleFilters defines the available filters for querying sales.
// This struct is used by both the service and repository layers.
type SaleFilters struct {
	SellerID *string `form:"seller_id"`
	Status   *string `form:"status"`
	From     *string `form:"from"` // Expected format YYYY-MM-DD
	To       *string `form:"to"`   // Expected format YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// IsValidPaymentMethod reports whether method is one of the accepted methods.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodFinancing:
		return true
	default:
		return false
	}
}

// IsValidSaleStatus reports whether status is one of the known sale statuses.
func IsValidSaleStatus(status string) bool {
	switch status {
	case SaleStatusCompleted, SaleStatusPending, SaleStatusCancelled, SaleStatusRefunded:
		return true
	default:
		return false
	}
}
