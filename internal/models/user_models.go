package models

import "time"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// User account statuses. Sellers start as pending and an admin moderates them;
// the admin account is created active by one-time setup. Status gates login.
const (
	UserStatusActive    = "active"
	UserStatusPending   = "pending"
	UserStatusSuspended = "suspended"
	UserStatusRejected  = "rejected"
)

// SellerProfile carries the seller-only fields. It is present on a User
// exactly when Role is "seller"; admin accounts never have one.
type SellerProfile struct {
	ShopName string  `json:"shop_name" db:"shop_name"`
	Phone    *string `json:"phone,omitempty" db:"phone"`
}

// User represents an account in the system (admin or seller).
type User struct {
	UID          string         `json:"uid" db:"uid"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"` // never serialized
	DisplayName  string         `json:"display_name" db:"display_name"`
	Role         string         `json:"role" db:"role"`
	Status       string         `json:"status" db:"status"`
	PhotoURL     *string        `json:"photo_url,omitempty" db:"photo_url"`
	Seller       *SellerProfile `json:"seller,omitempty"` // set only for Role == "seller"
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	LastLogin    *time.Time     `json:"last_login,omitempty" db:"last_login"`
}

// IsValidUserStatus reports whether status is one of the known account statuses.
func IsValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusPending, UserStatusSuspended, UserStatusRejected:
		return true
	default:
		return false
	}
}
