package models

import "time"

type TransactionType string

const (
	TransactionTypeDraw     TransactionType = "draw"
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeTrade    TransactionType = "trade"
	TransactionTypeClaim    TransactionType = "claim"
	TransactionTypeAirdrop  TransactionType = "airdrop"
)

// DrawRecord is the observable outcome of one committed draw.
type DrawRecord struct {
	ID          string  `json:"id"`
	Slot        uint64  `json:"slot"`
	Participant Address `json:"participant"`
	Candidate   uint64  `json:"candidate"`
	Prime       bool    `json:"prime"`
	PowerUp     float64 `json:"power_up,omitempty"`
	Reward      int64   `json:"reward"`
	// JackpotIncrement is what a losing draw added to the pool.
	JackpotIncrement int64  `json:"jackpot_increment"`
	LamportsPaid     uint64 `json:"lamports_paid"`
	DrainedTreasury  bool   `json:"drained_treasury,omitempty"`

	Points           int64   `json:"points"`
	WonPoints        int64   `json:"won_points"`
	Jackpot          int64   `json:"jackpot"`
	TreasuryLamports uint64  `json:"treasury_lamports"`
	TotalWonPoints   uint64  `json:"total_won_points"`
	Rate             float64 `json:"rate"`

	CreatedAt time.Time `json:"created_at"`
}

// Transaction records a non-draw balance movement for a participant.
type Transaction struct {
	ID          string          `json:"id"`
	Participant Address         `json:"participant"`
	Type        TransactionType `json:"type"`
	Slot        uint64          `json:"slot"`
	Lamports    uint64          `json:"lamports"`
	Points      int64           `json:"points"`
	WonPoints   int64           `json:"won_points"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
