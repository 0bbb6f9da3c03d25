package services

import "prime-slot-backend/internal/models"

// Broadcaster pushes committed state to connected clients.
type Broadcaster interface {
	BroadcastDraw(rec *models.DrawRecord)
	BroadcastLeaderboard(board []models.LeaderboardEntry, stakingLamports uint64)
}
