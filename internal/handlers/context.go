package handlers

import (
	"errors"
	"net/http"

	"ebike_admin_backend/internal/middleware"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated user's ID out of the gin context.
// Responds 401 and returns false when the middleware did not set it.
func currentUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		utils.LogError(errors.New("userID not found in context"), "currentUserID: userID not in context")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return "", false
	}
	uid, ok := raw.(string)
	if !ok || uid == "" {
		utils.LogError(errors.New("userID in context is not a string"), "currentUserID: userID type assertion failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User ID format incorrect.", "Invalid user ID in context"))
		return "", false
	}
	return uid, true
}
