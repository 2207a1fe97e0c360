package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys for the authenticated principal. The gateway authenticates
// requests and forwards the principal as headers; this service trusts them.
const (
	UserContextKey = "userID"
	RoleContextKey = "userRole"
)

// Roles forwarded by the gateway.
const (
	RoleCustomer   = "CUSTOMER"
	RoleContractor = "CONTRACTOR"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// AuthMiddleware requires an authenticated principal on every request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(UserContextKey, userID)
		c.Set(RoleContextKey, c.GetHeader("X-User-Role"))
		c.Next()
	}
}

// RequireRoles restricts a route group to the given roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role, err := GetUserRole(c)
		if err != nil || !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated principal's id.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return uuid.Parse(id)
		}
	}
	return uuid.Nil, errors.New("user ID not found in context")
}

// GetUserRole returns the authenticated principal's role.
func GetUserRole(c *gin.Context) (string, error) {
	if val, ok := c.Get(RoleContextKey); ok {
		if role, ok := val.(string); ok && role != "" {
			return role, nil
		}
	}
	return "", errors.New("user role not found in context")
}
