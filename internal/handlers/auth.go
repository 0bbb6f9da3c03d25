package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/services"
)

type AuthHandler struct {
	jwtService *services.JWTService
}

func NewAuthHandler(jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{jwtService: jwtService}
}

// CreateSession issues a token for an address. Signature checks belong to
// the host chain and are not repeated here.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req models.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	addr, err := models.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid address",
			"details": err.Error(),
		})
		return
	}

	token, claims, err := h.jwtService.GenerateToken(addr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"address":    addr,
		"session_id": claims.SessionID,
		"expires_at": claims.ExpiresAt.Time,
	})
}
