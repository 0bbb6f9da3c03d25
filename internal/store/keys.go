package store

import (
	"fmt"
	"time"

	"prime-slot-backend/internal/models"
)

// Key layout. Singletons use the seeds the on-chain program derived its
// accounts from.
const (
	KeyJackpot          = "jackpot"
	KeyTreasury         = "treasury"
	KeyStakingTreasury  = "staking_treasury"
	KeyTotalWonPoints   = "total_won_points"
	KeyRate             = "rate"
	KeyPlayerHistory    = "player_list"
	KeyLeaderboard      = "leaderboard"
	KeyRecentDraws      = "draws:recent"
	KeyUser             = "user:%s"
	KeyWallet           = "wallet:%s"
	KeyUserDraws        = "user:%s:draws"
	KeyUserTransactions = "user:%s:transactions"
	KeyRateLimit        = "ratelimit:%s:%s"

	DefaultRateLimitDraws = 60 // per minute
	RateLimitWindow       = time.Minute
)

// GlobalKeys lists every singleton record.
var GlobalKeys = []string{
	KeyJackpot,
	KeyTreasury,
	KeyStakingTreasury,
	KeyTotalWonPoints,
	KeyRate,
	KeyPlayerHistory,
	KeyLeaderboard,
}

func UserKey(addr models.Address) string             { return fmt.Sprintf(KeyUser, addr) }
func WalletKey(addr models.Address) string           { return fmt.Sprintf(KeyWallet, addr) }
func UserDrawsKey(addr models.Address) string        { return fmt.Sprintf(KeyUserDraws, addr) }
func UserTransactionsKey(addr models.Address) string { return fmt.Sprintf(KeyUserTransactions, addr) }

// ParticipantKeys is the full key set a participant operation declares.
func ParticipantKeys(addr models.Address) []string {
	keys := make([]string, 0, len(GlobalKeys)+5)
	keys = append(keys, GlobalKeys...)
	return append(keys,
		KeyRecentDraws,
		UserKey(addr),
		WalletKey(addr),
		UserDrawsKey(addr),
		UserTransactionsKey(addr),
	)
}
