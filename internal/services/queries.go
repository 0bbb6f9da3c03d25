package services

import (
	"context"

	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/store"
)

func (g *globals) response() *models.GlobalsResponse {
	players := make([]models.Address, len(g.history.Players))
	copy(players, g.history.Players)
	return &models.GlobalsResponse{
		Jackpot:          g.jackpot.Amount,
		JackpotWinner:    g.jackpot.Winner,
		TreasuryLamports: g.treasury.Lamports,
		TreasuryAmount:   g.treasury.Amount,
		StakingLamports:  g.staking.Lamports,
		TotalWonPoints:   g.total.Points,
		Rate:             g.rate.Value,
		RecentPlayers:    players,
	}
}

func (ge *GameEngine) Snapshot(ctx context.Context, addr models.Address) (*models.BalanceResponse, error) {
	var resp *models.BalanceResponse
	keys := []string{store.UserKey(addr), store.WalletKey(addr)}
	err := ge.store.View(ctx, keys, func(tx store.Tx) error {
		user, err := loadUser(tx, addr)
		if err != nil {
			return err
		}
		wallet, err := loadWallet(tx, addr)
		if err != nil {
			return err
		}
		resp = &models.BalanceResponse{
			Address:             addr,
			Points:              user.Points,
			WonPoints:           user.WonPoints,
			Lamports:            wallet.Lamports,
			LastWonSlot:         user.LastWonSlot,
			LastClaimedSlot:     user.LastClaimedSlot,
			LastClaimedLamports: user.LastClaimedLamports,
		}
		return nil
	})
	return resp, err
}

func (ge *GameEngine) Globals(ctx context.Context) (*models.GlobalsResponse, error) {
	var resp *models.GlobalsResponse
	err := ge.store.View(ctx, store.GlobalKeys, func(tx store.Tx) error {
		g, err := loadGlobals(tx)
		if err != nil {
			return err
		}
		resp = g.response()
		return nil
	})
	return resp, err
}

func (ge *GameEngine) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var board models.Leaderboard
	err := ge.store.View(ctx, []string{store.KeyLeaderboard}, func(tx store.Tx) error {
		ok, err := tx.Get(store.KeyLeaderboard, &board)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotInitialized
		}
		return nil
	})
	if board.Users == nil {
		board.Users = []models.LeaderboardEntry{}
	}
	return board.Users, err
}

// RecentDraws returns up to limit draws across all participants, newest
// first.
func (ge *GameEngine) RecentDraws(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	return ge.draws(ctx, store.KeyRecentDraws, limit)
}

func (ge *GameEngine) UserDraws(ctx context.Context, addr models.Address, limit int) ([]models.DrawRecord, error) {
	return ge.draws(ctx, store.UserDrawsKey(addr), limit)
}

func (ge *GameEngine) draws(ctx context.Context, key string, limit int) ([]models.DrawRecord, error) {
	draws := []models.DrawRecord{}
	err := ge.store.View(ctx, []string{key}, func(tx store.Tx) error {
		_, err := tx.Get(key, &draws)
		return err
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(draws) > limit {
		draws = draws[:limit]
	}
	return draws, nil
}

func (ge *GameEngine) Transactions(ctx context.Context, addr models.Address, limit int) ([]models.Transaction, error) {
	key := store.UserTransactionsKey(addr)
	txns := []models.Transaction{}
	err := ge.store.View(ctx, []string{key}, func(tx store.Tx) error {
		_, err := tx.Get(key, &txns)
		return err
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}
