package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context key for the tenant value set by AuthMiddleware.
const contextTenantKey = "tenant"

// AuthMiddleware creates a Gin middleware for JWT authentication. On success
// it stores a domain.TenantContext in the request context; handlers read the
// tenant via getTenantFromContext and pass it explicitly into services.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}
		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
			return
		}
		gymID, err := primitive.ObjectIDFromHex(claims.GymID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid gym ID in token")
			return
		}

		c.Set(contextTenantKey, domain.TenantContext{
			UserID: userID,
			GymID:  gymID,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware creates middleware to check if the user has one of the
// required roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := getTenantFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Tenant not found in context")
			return
		}

		for _, allowed := range allowedRoles {
			if tenant.Role == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", tenant.Role))
	}
}

// getTenantFromContext returns the TenantContext set by AuthMiddleware.
func getTenantFromContext(c *gin.Context) (domain.TenantContext, error) {
	raw, exists := c.Get(contextTenantKey)
	if !exists {
		return domain.TenantContext{}, errors.New("tenant not found in context")
	}
	tenant, ok := raw.(domain.TenantContext)
	if !ok {
		return domain.TenantContext{}, errors.New("invalid tenant type in context")
	}
	return tenant, nil
}
