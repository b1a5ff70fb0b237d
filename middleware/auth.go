package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const userContextKey = "userID"

// RequireAdmin guards back-office routes. The bearer token must carry
// role=admin; anything else is rejected before the handler runs.
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		role, _ := claims["role"].(string)
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		if sub, ok := claims["sub"].(string); ok {
			c.Set(userContextKey, sub)
		}
		c.Next()
	}
}

// OptionalIdentity attaches the caller's user id when a valid token is
// present. Guest checkout carries no token and passes straight through.
func OptionalIdentity(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseToken(c, secret); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set(userContextKey, sub)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or nil for guests.
func GetUserID(c *gin.Context) *uuid.UUID {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	raw, ok := val.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func parseToken(c *gin.Context, secret []byte) (jwt.MapClaims, bool) {
	header := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}
