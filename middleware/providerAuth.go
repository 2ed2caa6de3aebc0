package middleware

import (
	"net/http"
	"strings"

	"santai/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthProviderMiddleware accepts provider tokens and stores the caller's
// provider id on the context. Token issuance belongs to the auth service;
// this subsystem only validates.
func JWTAuthProviderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		role := utils.TokenRole(claims)
		if role != "provider" && role != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			return
		}
		providerID, err := utils.TokenSubject(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			return
		}

		c.Set("providerID", providerID)
		if role == "admin" {
			c.Set("isAdmin", true)
		}
		c.Next()
	}
}
