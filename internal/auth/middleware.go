package auth

import (
	"log"
	"net/http"
	"strings"

	"event-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie the web client stores the session token in
const TokenCookie = "token"

const claimsKey = "auth_claims"

// CurrentUser is the authenticated caller as seen by handlers
type CurrentUser struct {
	ID    uint
	Email string
	Name  string
	Role  models.Role
}

// extractToken reads "Bearer <token>" from the Authorization header, falling
// back to the session cookie.
func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authorization required. Expected: Bearer <token>",
				"code":    "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			log.Printf("Auth: token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
				"code":    "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// continues anonymously otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := extractToken(c); ok {
			if claims, err := ValidateToken(tokenString); err == nil {
				c.Set(claimsKey, claims)
				c.Set("user_id", claims.UserID)
			}
		}
		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles. It must
// run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized", "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Insufficient permissions for role " + string(user.Role),
			"code":    "FORBIDDEN",
		})
		c.Abort()
	}
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}

// GetCurrentUser returns the authenticated caller
func GetCurrentUser(c *gin.Context) (CurrentUser, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return CurrentUser{}, false
	}
	claims, ok := v.(*Claims)
	if !ok {
		return CurrentUser{}, false
	}
	return CurrentUser{ID: claims.UserID, Email: claims.Email, Name: claims.Name, Role: claims.Role}, true
}
