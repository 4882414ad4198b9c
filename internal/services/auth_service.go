package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"
	"ebike_admin_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for auth ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrAdminExists        = errors.New("an administrator account already exists")
	ErrAccountPending     = errors.New("account is awaiting approval")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrAccountRejected    = errors.New("account application was rejected")
)

// --- DTOs ---

// RegisterSellerPayload opens a seller account. The account lands in pending
// status and cannot log in until an admin approves it.
type RegisterSellerPayload struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
	ShopName    string `json:"shop_name" binding:"required"`
	Phone       string `json:"phone"`
}

// SetupAdminPayload creates the single administrator account.
type SetupAdminPayload struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfilePayload partially updates the caller's profile. Nil fields are
// left untouched; shop name and phone only apply to seller accounts.
type UpdateProfilePayload struct {
	DisplayName *string `json:"display_name"`
	ShopName    *string `json:"shop_name"`
	Phone       *string `json:"phone"`
	PhotoURL    *string `json:"photo_url"`
}

// LoginResult carries the token pair and the authenticated user.
type LoginResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterSeller(req RegisterSellerPayload) (*models.User, error)
	SetupAdmin(req SetupAdminPayload) (*models.User, error)
	Login(req LoginPayload) (*LoginResult, error)
	RefreshToken(refreshToken string) (string, error)
	GetUserProfile(uid string) (*models.User, error)
	UpdateProfile(uid string, req UpdateProfilePayload) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ur repositories.UserRepository, db *sql.DB) AuthService {
	return &authService{userRepo: ur, db: db}
}

func (s *authService) RegisterSeller(req RegisterSellerPayload) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         models.RoleSeller,
		Status:       models.UserStatusPending,
		Seller:       &models.SellerProfile{ShopName: req.ShopName},
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Seller.Phone = &phone
	}

	if err := s.userRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create seller account: %w", err)
	}
	return s.userRepo.GetUserByUID(user.UID)
}

// SetupAdmin creates the administrator account if none exists yet. The
// existence check and the insert are separate statements, so concurrent
// setups can still race past each other.
func (s *authService) SetupAdmin(req SetupAdminPayload) (*models.User, error) {
	count, err := s.userRepo.CountActiveAdmins()
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}
	return s.userRepo.GetUserByUID(user.UID)
}

// Login authenticates the credentials and gates on account status: only
// active accounts get a token pair. The status errors are distinct so the
// client can tell a pending application from a suspension.
func (s *authService) Login(req LoginPayload) (*LoginResult, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user for login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	switch user.Status {
	case models.UserStatusActive:
	case models.UserStatusPending:
		return nil, ErrAccountPending
	case models.UserStatusSuspended:
		return nil, ErrAccountSuspended
	case models.UserStatusRejected:
		return nil, ErrAccountRejected
	default:
		return nil, fmt.Errorf("%w: unknown account status %q", ErrValidation, user.Status)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(s.db, user.UID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	accessToken, err := utils.GenerateAccessToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// account is re-read so a suspension issued since login takes effect here.
func (s *authService) RefreshToken(refreshToken string) (string, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	user, err := s.userRepo.GetUserByUID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to fetch user for token refresh: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return "", ErrAccountSuspended
	}
	return utils.GenerateAccessToken(user.UID, user.Email, user.Role)
}

func (s *authService) GetUserProfile(uid string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUID(uid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(uid string, req UpdateProfilePayload) (*models.User, error) {
	err := s.userRepo.UpdateProfile(s.db, uid, req.DisplayName, req.ShopName, req.Phone, req.PhotoURL)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.userRepo.GetUserByUID(uid)
}
