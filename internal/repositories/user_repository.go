package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"

	"github.com/lib/pq"
)

// UserRepository defines the interface for user/account database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUID(uid string) (*models.User, error)
	GetSellers() ([]models.User, error)
	GetPendingSellers() ([]models.User, error)
	UpdateUserStatus(executor SQLExecutor, uid, status string) error
	UpdateLastLogin(executor SQLExecutor, uid string, at time.Time) error
	UpdateProfile(executor SQLExecutor, uid string, displayName, shopName, phone, photoURL *string) error
	DeleteUser(executor SQLExecutor, uid string) error
	// CountActiveAdmins backs the single-admin invariant check at signup.
	// The check-then-insert pair is still racy without a store-level
	// uniqueness constraint; concurrent setups can slip through.
	CountActiveAdmins() (int, error)
	CountSellers() (int, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `uid, email, password_hash, display_name, role, status, photo_url,
	    shop_name, phone, created_at, updated_at, last_login`

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var shopName sql.NullString
	var phone sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.UID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Role, &user.Status,
		&user.PhotoURL, &shopName, &phone, &user.CreatedAt, &user.UpdatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	if user.Role == models.RoleSeller {
		profile := &models.SellerProfile{}
		if shopName.Valid {
			profile.ShopName = shopName.String
		}
		if phone.Valid {
			p := phone.String
			profile.Phone = &p
		}
		user.Seller = profile
	}
	return user, nil
}

func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User) error {
	query := `INSERT INTO users
	          (uid, email, password_hash, display_name, role, status, photo_url, shop_name, phone, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	currentTime := time.Now()
	user.CreatedAt = currentTime
	user.UpdatedAt = currentTime

	var shopName, phone *string
	if user.Seller != nil {
		if user.Seller.ShopName != "" {
			shopName = &user.Seller.ShopName
		}
		phone = user.Seller.Phone
	}

	_, err := executor.Exec(query,
		user.UID, user.Email, user.PasswordHash, user.DisplayName, user.Role, user.Status,
		user.PhotoURL, shopName, phone, currentTime, currentTime,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by email: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func (r *userRepository) GetUserByUID(uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	user, err := scanUser(r.db.QueryRow(query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by uid %s: %v", ErrDatabaseError, uid, err)
	}
	return user, nil
}

func (r *userRepository) getUsersWhere(where string, args ...interface{}) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY created_at DESC`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, nil
}

func (r *userRepository) GetSellers() ([]models.User, error) {
	return r.getUsersWhere("role = $1", models.RoleSeller)
}

func (r *userRepository) GetPendingSellers() ([]models.User, error) {
	return r.getUsersWhere("role = $1 AND status = $2", models.RoleSeller, models.UserStatusPending)
}

func (r *userRepository) UpdateUserStatus(executor SQLExecutor, uid, status string) error {
	query := `UPDATE users SET status = $1, updated_at = $2 WHERE uid = $3`
	result, err := executor.Exec(query, status, time.Now(), uid)
	if err != nil {
		return fmt.Errorf("%w: updating status for user %s: %v", ErrDatabaseError, uid, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(executor SQLExecutor, uid string, at time.Time) error {
	query := `UPDATE users SET last_login = $1, updated_at = $2 WHERE uid = $3`
	_, err := executor.Exec(query, at, time.Now(), uid)
	if err != nil {
		return fmt.Errorf("%w: updating last login for user %s: %v", ErrDatabaseError, uid, err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(executor SQLExecutor, uid string, displayName, shopName, phone, photoURL *string) error {
	query := `UPDATE users
	          SET display_name = COALESCE($1, display_name),
	              shop_name = COALESCE($2, shop_name),
	              phone = COALESCE($3, phone),
	              photo_url = COALESCE($4, photo_url),
	              updated_at = $5
	          WHERE uid = $6`
	result, err := executor.Exec(query, displayName, shopName, phone, photoURL, time.Now(), uid)
	if err != nil {
		return fmt.Errorf("%w: updating profile for user %s: %v", ErrDatabaseError, uid, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(executor SQLExecutor, uid string) error {
	query := `DELETE FROM users WHERE uid = $1`
	result, err := executor.Exec(query, uid)
	if err != nil {
		return fmt.Errorf("%w: deleting user %s: %v", ErrDatabaseError, uid, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) CountActiveAdmins() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = $1 AND status = $2`,
		models.RoleAdmin, models.UserStatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting active admins: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *userRepository) CountSellers() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleSeller).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting sellers: %v", ErrDatabaseError, err)
	}
	return count, nil
}
