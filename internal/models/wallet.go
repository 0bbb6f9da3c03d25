package models

import "prime-slot-backend/internal/ledger"

// Record sizes used for reserve floors. Discriminator plus fields.
const (
	TreasurySize        = 8 + 8
	StakingTreasurySize = 8
	WalletSize          = 0
)

// Wallet is a participant's native balance.
type Wallet struct {
	ledger.Account
}

func NewWallet() *Wallet {
	return &Wallet{Account: ledger.Account{Size: WalletSize}}
}

// Treasury funds draw payouts. Amount is advisory bookkeeping of points sold;
// the payable balance is the embedded account.
type Treasury struct {
	Amount int64 `json:"amount"`
	ledger.Account
}

// StakingTreasury backs the won-points exchange rate.
type StakingTreasury struct {
	ledger.Account
}

type BalanceResponse struct {
	Address             Address `json:"address"`
	Points              int64   `json:"points"`
	WonPoints           int64   `json:"won_points"`
	Lamports            uint64  `json:"lamports"`
	LastWonSlot         uint64  `json:"last_won_slot"`
	LastClaimedSlot     uint64  `json:"last_claimed_slot"`
	LastClaimedLamports uint64  `json:"last_claimed_lamports"`
}

type GlobalsResponse struct {
	Jackpot          int64     `json:"jackpot"`
	JackpotWinner    Address   `json:"jackpot_winner"`
	TreasuryLamports uint64    `json:"treasury_lamports"`
	TreasuryAmount   int64     `json:"treasury_amount"`
	StakingLamports  uint64    `json:"staking_lamports"`
	TotalWonPoints   uint64    `json:"total_won_points"`
	Rate             float64   `json:"rate"`
	RecentPlayers    []Address `json:"recent_players"`
}
