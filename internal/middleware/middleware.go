package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

// CORS handles Cross-Origin Resource Sharing
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// Check if origin is allowed
		allowed := false
		for _, o := range allowedOrigins {
			if o == "*" || o == origin || strings.HasSuffix(origin, strings.TrimPrefix(o, "https://*")) {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Owner-ID")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// OwnerMiddleware resolves the store owner identity for the request. A
// Bearer token is validated and its subject claim becomes the owner id;
// without a token the X-Owner-ID header is accepted for internal callers.
func OwnerMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := ""

		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				c.Abort()
				return
			}
			if sub, err := claims.GetSubject(); err == nil {
				ownerID = sub
			}
		}

		if ownerID == "" {
			ownerID = c.GetHeader("X-Owner-ID")
		}
		if ownerID != "" {
			c.Set("ownerId", ownerID)
		}
		c.Next()
	}
}

// RequireOwnerID ensures an owner ID is present
func RequireOwnerID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetString("ownerId")
		if ownerID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "owner identity is required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetOwnerID retrieves the owner ID from the context
func GetOwnerID(c *gin.Context) string {
	return c.GetString("ownerId")
}
