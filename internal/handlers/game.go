package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prime-slot-backend/internal/middleware"
	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/services"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type GameHandler struct {
	gameEngine *services.GameEngine
}

func NewGameHandler(gameEngine *services.GameEngine) *GameHandler {
	return &GameHandler{gameEngine: gameEngine}
}

func (h *GameHandler) Draw(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rec, err := h.gameEngine.Draw(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DrawResponse{
		Record:  rec,
		Outcome: models.Outcome(rec.Prime),
	})
}

func (h *GameHandler) PurchasePoints(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.gameEngine.PayForPoints(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "purchase": result})
}

func (h *GameHandler) TradeWonPoints(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.gameEngine.TradeWonPoints(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "trade": result})
}

func (h *GameHandler) ClaimLamports(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.gameEngine.ClaimLamports(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "claim": result})
}

func (h *GameHandler) GetDrawHistory(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	draws, err := h.gameEngine.UserDraws(c.Request.Context(), addr, queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draws": draws,
		"count": len(draws),
	})
}

func (h *GameHandler) GetRecentDraws(c *gin.Context) {
	draws, err := h.gameEngine.RecentDraws(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draws": draws,
		"count": len(draws),
	})
}

func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	board, err := h.gameEngine.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": board})
}

func (h *GameHandler) GetGlobals(c *gin.Context) {
	globals, err := h.gameEngine.Globals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, globals)
}

func (h *GameHandler) Initialize(c *gin.Context) {
	var req models.InitializeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"details": err.Error(),
			})
			return
		}
	}

	globals, err := h.gameEngine.InitializeGlobals(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, globals)
}

func (h *GameHandler) Airdrop(c *gin.Context) {
	var req models.AirdropRequest
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

	balance, err := h.gameEngine.Airdrop(c.Request.Context(), addr, req.Lamports)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"address":  addr,
		"lamports": balance,
	})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
