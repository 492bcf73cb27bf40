package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// EmailKey is the gin context key holding the verified account email.
const EmailKey = "tokenEmail"

// AuthMiddleware verifies the bearer token and stores the verified email on
// the context. The payment confirmation endpoint deliberately skips this:
// there the gateway is the trust source.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized Access!"})
			return
		}

		email, err := verifyToken(parts[1], key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized Access!"})
			return
		}

		c.Set(EmailKey, email)
		c.Next()
	}
}

func verifyToken(tokenStr string, key []byte) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("token missing email claim")
	}
	return email, nil
}

// TokenEmail returns the verified email set by AuthMiddleware.
func TokenEmail(c *gin.Context) string {
	if v, ok := c.Get(EmailKey); ok {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}

// RoleResolver is the role collaborator consulted by RequireRole.
type RoleResolver interface {
	Role(ctx context.Context, email string) (string, error)
}

// RequireRole gates a route on the caller's role tag.
func RequireRole(roles RoleResolver, required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := TokenEmail(c)
		role, err := roles.Role(c.Request.Context(), email)
		if err != nil || role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": fmt.Sprintf("%s access required", required),
				"role":    role,
			})
			return
		}
		c.Next()
	}
}
