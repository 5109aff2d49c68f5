package middleware

import (
	"log"
	"net/http"
	"os"

	"fomosite/api/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired gates administrative endpoints. Accepts a valid admin
// JWT from the cookie or the Authorization header, or the static
// X-API-KEY for server-to-server callers.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		staticKey := c.GetHeader("X-API-KEY")
		if staticKey != "" && staticKey == os.Getenv("AUTH_DEFAULT") {
			c.Next()
			return
		}
		tokenString, err := c.Cookie("jwt_token")
		if err != nil {
			tokenString = c.GetHeader("Authorization")
			if tokenString == "" {
				log.Println("AuthRequired: No JWT token found in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
			if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
				tokenString = tokenString[7:]
			}
		}
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("admin_email", claims.Email)

		c.Next()
	}
}
