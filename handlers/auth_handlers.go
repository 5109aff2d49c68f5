// api/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"fomosite/api/models"
	"fomosite/api/store"
	"fomosite/api/utils"
)

type AuthHandlers struct {
	AdminStore *store.AdminStore
}

func NewAuthHandlers(adminStore *store.AdminStore) *AuthHandlers {
	return &AuthHandlers{AdminStore: adminStore}
}

// Login authenticates an admin and issues a JWT, both as a cookie and
// in the response body for clients that prefer the Authorization header.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	admin, err := h.AdminStore.GetAdminByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrAdminNotFound) {
			log.Printf("ERROR: Database error during admin login for %s: %v", req.Email, err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(admin.HashedPassword, []byte(req.Password)); err != nil {
		log.Printf("Admin login failed for %s: password mismatch", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := utils.GenerateJWT(admin)
	if err != nil {
		log.Printf("ERROR: Failed to generate JWT for admin %d: %v", admin.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetCookie(
		"jwt_token",
		tokenString,
		int(24*time.Hour/time.Second),
		"/",
		"",
		false,
		true,
	)

	log.Printf("Admin logged in: ID=%d, Email=%s. JWT issued.", admin.ID, admin.Email)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"message": "Login successful",
	})
}

// Verify reports whether a presented token is currently valid. Always
// answers 200; validity is carried in the body.
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req models.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	if _, err := utils.ValidateJWT(req.Token); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	// Expire the JWT cookie immediately.
	c.SetCookie(
		"jwt_token",
		"",
		-1,
		"/",
		"",
		false,
		true,
	)

	log.Println("Admin logged out (JWT cookie cleared).")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
