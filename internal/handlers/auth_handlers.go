package handlers

import (
	"errors"
	"net/http"

	"ebike_admin_backend/internal/services"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterSeller handles a new seller application. The account is created in
// pending status.
func (h *AuthHandler) RegisterSeller(c *gin.Context) {
	var req services.RegisterSellerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RegisterSeller: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.authService.RegisterSeller(req)
	if err != nil {
		utils.LogError(err, "RegisterSeller: Error from authService.RegisterSeller")
		if errors.Is(err, services.ErrEmailTaken) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email is already registered.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register seller.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// SetupAdmin creates the single administrator account. Once one active admin
// exists the endpoint refuses further setups.
func (h *AuthHandler) SetupAdmin(c *gin.Context) {
	var req services.SetupAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SetupAdmin: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.authService.SetupAdmin(req)
	if err != nil {
		utils.LogError(err, "SetupAdmin: Error from authService.SetupAdmin")
		if errors.Is(err, services.ErrAdminExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "An administrator account already exists.", err.Error()))
		} else if errors.Is(err, services.ErrEmailTaken) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email is already registered.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create administrator.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and returns a token pair. Pending, suspended and
// rejected accounts each get a distinct 403 so the client can explain why.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.authService.Login(req)
	if err != nil {
		utils.LogError(err, "Login: Error from authService.Login")
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", err.Error()))
		} else if errors.Is(err, services.ErrAccountPending) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is awaiting admin approval.", err.Error()))
		} else if errors.Is(err, services.ErrAccountSuspended) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is suspended.", err.Error()))
		} else if errors.Is(err, services.ErrAccountRejected) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account application was rejected.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// RefreshToken exchanges a refresh token for a new access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	accessToken, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.LogError(err, "RefreshToken: Error from authService.RefreshToken")
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired refresh token.", err.Error()))
		} else if errors.Is(err, services.ErrAccountSuspended) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is no longer active.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to refresh token.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// GetCurrentUser retrieves the profile of the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserProfile(uid)
	if err != nil {
		utils.LogError(err, "GetCurrentUser: Error from authService.GetUserProfile for uid "+uid)
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User profile not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve user profile.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile partially updates the authenticated user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfilePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.authService.UpdateProfile(uid, req)
	if err != nil {
		utils.LogError(err, "UpdateProfile: Error from authService.UpdateProfile for uid "+uid)
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User profile not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update profile.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout acknowledges a logout. Tokens are stateless; the client discards
// them.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please discard your tokens."})
}
