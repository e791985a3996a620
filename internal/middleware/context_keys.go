package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey stores the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// companyIDKey stores the authenticated user's company scope.
const companyIDKey = contextKey("companyID")

// AddUserToCtx returns a context carrying the authenticated identity.
func AddUserToCtx(ctx context.Context, userID, companyID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, companyIDKey, companyID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		userID, ok := v.(string)
		return userID, ok
	}
	return "", false
}

// GetCompanyIDFromContext retrieves the authenticated company scope from the
// Gin context.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(companyIDKey); v != nil {
		companyID, ok := v.(string)
		return companyID, ok
	}
	return "", false
}
