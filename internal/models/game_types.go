package models

type SessionRequest struct {
	Address string `json:"address" binding:"required"`
}

// InitializeRequest funds the singleton accounts above their reserve floors.
type InitializeRequest struct {
	TreasuryDeposit uint64 `json:"treasury_deposit"`
	StakingDeposit  uint64 `json:"staking_deposit"`
	Jackpot         int64  `json:"jackpot" binding:"min=0"`
}

type AirdropRequest struct {
	Address  string `json:"address" binding:"required"`
	Lamports uint64 `json:"lamports" binding:"required,min=1"`
}

type DrawResponse struct {
	Record  *DrawRecord `json:"record"`
	Outcome string      `json:"outcome"` // win, loss
}

type TradeResult struct {
	WonPointsSpent int64   `json:"won_points_spent"`
	Lamports       uint64  `json:"lamports"`
	Rate           float64 `json:"rate"`
	WonPoints      int64   `json:"won_points"`
	TotalWonPoints uint64  `json:"total_won_points"`
}

type ClaimResult struct {
	Lamports        uint64 `json:"lamports"`
	Slot            uint64 `json:"slot"`
	StakingLamports uint64 `json:"staking_lamports"`
}

type PurchaseResult struct {
	Points           int64  `json:"points"`
	PointsBought     int64  `json:"points_bought"`
	LamportsPaid     uint64 `json:"lamports_paid"`
	TreasuryLamports uint64 `json:"treasury_lamports"`
	StakingLamports  uint64 `json:"staking_lamports"`
}
