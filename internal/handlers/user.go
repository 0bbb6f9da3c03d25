package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prime-slot-backend/internal/middleware"
	"prime-slot-backend/internal/services"
)

type UserHandler struct {
	gameEngine *services.GameEngine
}

func NewUserHandler(gameEngine *services.GameEngine) *UserHandler {
	return &UserHandler{gameEngine: gameEngine}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	balance, err := h.gameEngine.Snapshot(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       balance,
		"session_id": c.GetString(middleware.ContextSessionID),
	})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.gameEngine.InitializeUser(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"address": addr,
		"user":    user,
	})
}

func (h *UserHandler) GetTransactions(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	txns, err := h.gameEngine.Transactions(c.Request.Context(), addr, queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txns,
		"count":        len(txns),
	})
}
