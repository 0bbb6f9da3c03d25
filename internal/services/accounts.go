package services

import (
	"fmt"

	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/store"
)

// historyLimit bounds the per-user and global draw/transaction logs.
const historyLimit = 100

// globals is the set of singleton accounts every participant operation
// declares.
type globals struct {
	jackpot     models.Jackpot
	treasury    models.Treasury
	staking     models.StakingTreasury
	total       models.TotalWonPoints
	rate        models.Rate
	history     models.PlayerHistory
	leaderboard models.Leaderboard
}

func (g *globals) records() map[string]any {
	return map[string]any{
		store.KeyJackpot:         &g.jackpot,
		store.KeyTreasury:        &g.treasury,
		store.KeyStakingTreasury: &g.staking,
		store.KeyTotalWonPoints:  &g.total,
		store.KeyRate:            &g.rate,
		store.KeyPlayerHistory:   &g.history,
		store.KeyLeaderboard:     &g.leaderboard,
	}
}

func loadGlobals(tx store.Tx) (*globals, error) {
	g := &globals{}
	for _, key := range store.GlobalKeys {
		ok, err := tx.Get(key, g.records()[key])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrNotInitialized, key)
		}
	}
	return g, nil
}

func (g *globals) save(tx store.Tx) error {
	records := g.records()
	for _, key := range store.GlobalKeys {
		if err := tx.Put(key, records[key]); err != nil {
			return err
		}
	}
	return nil
}

func loadUser(tx store.Tx, addr models.Address) (*models.User, error) {
	var user models.User
	ok, err := tx.Get(store.UserKey(addr), &user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotInitialized, addr)
	}
	user.Upgrade()
	return &user, nil
}

// loadWallet returns the participant's wallet, empty if it was never funded.
func loadWallet(tx store.Tx, addr models.Address) (*models.Wallet, error) {
	wallet := models.NewWallet()
	if _, err := tx.Get(store.WalletKey(addr), wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// prependDraw adds rec to the log at key, newest first.
func prependDraw(tx store.Tx, key string, rec *models.DrawRecord) error {
	var draws []models.DrawRecord
	if _, err := tx.Get(key, &draws); err != nil {
		return err
	}
	draws = append([]models.DrawRecord{*rec}, draws...)
	if len(draws) > historyLimit {
		draws = draws[:historyLimit]
	}
	return tx.Put(key, draws)
}

func prependTransaction(tx store.Tx, addr models.Address, txn *models.Transaction) error {
	key := store.UserTransactionsKey(addr)
	var txns []models.Transaction
	if _, err := tx.Get(key, &txns); err != nil {
		return err
	}
	txns = append([]models.Transaction{*txn}, txns...)
	if len(txns) > historyLimit {
		txns = txns[:historyLimit]
	}
	return tx.Put(key, txns)
}
