package services

import (
	"database/sql"
	"errors"
	"fmt"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"
)

var ErrNotASeller = errors.New("user is not a seller account")

// --- SellerService Interface ---
// Admin-side moderation of seller accounts: the approve/reject gate for new
// applications and suspend/reactivate for existing shops.
type SellerService interface {
	GetSellers() ([]models.User, error)
	GetPendingSellers() ([]models.User, error)
	GetSellerByID(uid string) (*models.User, error)
	ApproveSeller(uid string) (*models.User, error)
	RejectSeller(uid string) (*models.User, error)
	SuspendSeller(uid string) (*models.User, error)
	ReactivateSeller(uid string) (*models.User, error)
	DeleteSeller(uid string) error
}

// --- sellerService Implementation ---
type sellerService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewSellerService creates a new instance of SellerService.
func NewSellerService(ur repositories.UserRepository, db *sql.DB) SellerService {
	return &sellerService{userRepo: ur, db: db}
}

func (s *sellerService) GetSellers() ([]models.User, error) {
	sellers, err := s.userRepo.GetSellers()
	if err != nil {
		return nil, fmt.Errorf("failed to get sellers: %w", err)
	}
	return sellers, nil
}

func (s *sellerService) GetPendingSellers() ([]models.User, error) {
	sellers, err := s.userRepo.GetPendingSellers()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending sellers: %w", err)
	}
	return sellers, nil
}

func (s *sellerService) GetSellerByID(uid string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUID(uid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get seller by ID: %w", err)
	}
	if user.Role != models.RoleSeller {
		return nil, ErrNotASeller
	}
	return user, nil
}

// ApproveSeller activates a seller account. There is no guard on the current
// status: approving an already suspended account reactivates it.
func (s *sellerService) ApproveSeller(uid string) (*models.User, error) {
	return s.setStatus(uid, models.UserStatusActive)
}

func (s *sellerService) RejectSeller(uid string) (*models.User, error) {
	return s.setStatus(uid, models.UserStatusRejected)
}

func (s *sellerService) SuspendSeller(uid string) (*models.User, error) {
	return s.setStatus(uid, models.UserStatusSuspended)
}

func (s *sellerService) ReactivateSeller(uid string) (*models.User, error) {
	return s.setStatus(uid, models.UserStatusActive)
}

func (s *sellerService) setStatus(uid, status string) (*models.User, error) {
	if _, err := s.GetSellerByID(uid); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateUserStatus(s.db, uid, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update seller status: %w", err)
	}
	return s.userRepo.GetUserByUID(uid)
}

// DeleteSeller removes the account only. The seller's shop inventory, sales
// and requests keep their denormalized copies of the name and shop.
func (s *sellerService) DeleteSeller(uid string) error {
	if _, err := s.GetSellerByID(uid); err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(s.db, uid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete seller: %w", err)
	}
	return nil
}
