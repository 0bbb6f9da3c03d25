package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prime-slot-backend/internal/chain"
	"prime-slot-backend/internal/ledger"
	"prime-slot-backend/internal/metrics"
	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/primality"
	"prime-slot-backend/internal/store"

	"github.com/sirupsen/logrus"
)

const (
	// DrawCost is charged on every accepted draw. A user must hold more
	// than this to draw.
	DrawCost         = 10
	JackpotIncrement = 10

	PointsPerPurchase     = 1000
	PurchasePriceLamports = 1_000_000_000
	stakingShareBps       = 1000 // of each purchase

	TradeUnit = 1000

	// ClaimInterval is about one day of 400ms slots.
	ClaimInterval = 216000
	claimShareBps = 100
)

type Metrics interface {
	RecordDraw(outcome string, reward int64, lamports uint64, d time.Duration)
	RecordPayout(source string, lamports uint64)
	RecordOperation(operation string, err error)
	RecordState(jackpot int64, treasury, staking, totalWon uint64, rate float64)
	RecordAuditFailure()
}

// DrawRecorder receives every committed draw.
type DrawRecorder interface {
	Record(ctx context.Context, rec *models.DrawRecord) error
}

type GameEngine struct {
	store        store.Store
	clock        chain.Clock
	oracle       primality.Oracle
	reserve      chain.ReserveFunc
	logger       logrus.FieldLogger
	metrics      Metrics
	broadcaster  Broadcaster
	recorder     DrawRecorder
	allowAirdrop bool
	now          func() time.Time
}

type Option func(*GameEngine)

func WithLogger(l logrus.FieldLogger) Option { return func(ge *GameEngine) { ge.logger = l } }
func WithMetrics(m Metrics) Option           { return func(ge *GameEngine) { ge.metrics = m } }
func WithBroadcaster(b Broadcaster) Option   { return func(ge *GameEngine) { ge.broadcaster = b } }
func WithRecorder(r DrawRecorder) Option     { return func(ge *GameEngine) { ge.recorder = r } }
func WithReserve(f chain.ReserveFunc) Option { return func(ge *GameEngine) { ge.reserve = f } }
func WithAirdrop(enabled bool) Option        { return func(ge *GameEngine) { ge.allowAirdrop = enabled } }
func WithNow(now func() time.Time) Option    { return func(ge *GameEngine) { ge.now = now } }

func NewGameEngine(st store.Store, clock chain.Clock, oracle primality.Oracle, opts ...Option) *GameEngine {
	ge := &GameEngine{
		store:   st,
		clock:   clock,
		oracle:  oracle,
		reserve: chain.RentExemptMinimum,
		logger:  logrus.StandardLogger(),
		metrics: metrics.NewNoOpCollector(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ge)
	}
	return ge
}

// SetBroadcaster attaches b after construction, for hubs that need the
// engine themselves.
func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	ge.broadcaster = b
}

// InitializeGlobals creates the singleton accounts. It fails if any of them
// already exists.
func (ge *GameEngine) InitializeGlobals(ctx context.Context, req models.InitializeRequest) (*models.GlobalsResponse, error) {
	if req.Jackpot < 0 {
		return nil, fmt.Errorf("initial jackpot %d: %w", req.Jackpot, ledger.ErrUnderflow)
	}

	var g *globals
	err := ge.store.Update(ctx, store.GlobalKeys, func(tx store.Tx) error {
		for _, key := range store.GlobalKeys {
			var raw json.RawMessage
			ok, err := tx.Get(key, &raw)
			if err != nil {
				return err
			}
			if ok {
				return fmt.Errorf("%w: %s exists", ErrAlreadyInitialized, key)
			}
		}

		g = &globals{}
		g.jackpot.Amount = req.Jackpot
		g.treasury.Size = models.TreasurySize
		g.treasury.Lamports = ge.reserve(models.TreasurySize)
		if err := g.treasury.Credit(req.TreasuryDeposit); err != nil {
			return err
		}
		g.staking.Size = models.StakingTreasurySize
		g.staking.Lamports = ge.reserve(models.StakingTreasurySize)
		if err := g.staking.Credit(req.StakingDeposit); err != nil {
			return err
		}
		return g.save(tx)
	})
	ge.metrics.RecordOperation("initialize", err)
	if err != nil {
		return nil, err
	}

	ge.observeState(g)
	ge.logger.WithFields(logrus.Fields{
		"jackpot":  g.jackpot.Amount,
		"treasury": g.treasury.Lamports,
		"staking":  g.staking.Lamports,
	}).Info("globals initialized")

	return g.response(), nil
}

// InitializeUser creates the participant's record with the starting points.
func (ge *GameEngine) InitializeUser(ctx context.Context, addr models.Address) (*models.User, error) {
	var user *models.User
	err := ge.store.Update(ctx, []string{store.UserKey(addr)}, func(tx store.Tx) error {
		var existing models.User
		ok, err := tx.Get(store.UserKey(addr), &existing)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: user %s", ErrAlreadyInitialized, addr)
		}
		user = models.NewUser()
		return tx.Put(store.UserKey(addr), user)
	})
	ge.metrics.RecordOperation("initialize_user", err)
	if err != nil {
		return nil, err
	}

	ge.logger.WithField("participant", addr.String()).Info("user initialized")
	return user, nil
}

// Draw runs one draw for participant as a single atomic transition. A
// rejected draw leaves every account untouched.
func (ge *GameEngine) Draw(ctx context.Context, participant models.Address) (*models.DrawRecord, error) {
	start := time.Now()
	slot := ge.clock.Slot()
	unix := ge.clock.UnixTimestamp()

	var (
		rec *models.DrawRecord
		g   *globals
	)
	err := ge.store.Update(ctx, store.ParticipantKeys(participant), func(tx store.Tx) error {
		var err error
		if g, err = loadGlobals(tx); err != nil {
			return err
		}
		user, err := loadUser(tx, participant)
		if err != nil {
			return err
		}
		if user.Points <= DrawCost {
			return fmt.Errorf("%w: have %d, need more than %d", ErrInsufficientPoints, user.Points, DrawCost)
		}
		wallet, err := loadWallet(tx, participant)
		if err != nil {
			return err
		}

		candidate := Compose(slot, participant, g.history.Players, unix)
		r := &models.DrawRecord{
			ID:          models.GenerateDrawID(),
			Slot:        slot,
			Participant: participant,
			Candidate:   candidate,
			Prime:       ge.oracle.IsPrime(candidate),
			CreatedAt:   ge.now().UTC(),
		}

		user.Points -= DrawCost
		if r.Prime {
			if err := ge.settleWin(g, user, wallet, r); err != nil {
				return err
			}
		} else {
			g.jackpot.Amount += JackpotIncrement
			r.JackpotIncrement = JackpotIncrement
		}

		g.history.Push(participant)
		g.leaderboard.Update(participant, user.WonPoints)

		r.Points = user.Points
		r.WonPoints = user.WonPoints
		r.Jackpot = g.jackpot.Amount
		r.TreasuryLamports = g.treasury.Lamports
		r.TotalWonPoints = g.total.Points
		r.Rate = g.rate.Value

		if err := g.save(tx); err != nil {
			return err
		}
		if err := tx.Put(store.UserKey(participant), user); err != nil {
			return err
		}
		if err := tx.Put(store.WalletKey(participant), wallet); err != nil {
			return err
		}
		if err := prependDraw(tx, store.KeyRecentDraws, r); err != nil {
			return err
		}
		if err := prependDraw(tx, store.UserDrawsKey(participant), r); err != nil {
			return err
		}
		rec = r
		return nil
	})
	ge.metrics.RecordOperation("draw", err)
	if err != nil {
		ge.logger.WithError(err).WithFields(logrus.Fields{
			"participant": participant.String(),
			"slot":        slot,
		}).Warn("draw rejected")
		return nil, err
	}

	ge.metrics.RecordDraw(models.Outcome(rec.Prime), rec.Reward, rec.LamportsPaid, time.Since(start))
	ge.observeState(g)
	ge.logger.WithFields(logrus.Fields{
		"participant": participant.String(),
		"slot":        rec.Slot,
		"candidate":   rec.Candidate,
		"prime":       rec.Prime,
		"reward":      rec.Reward,
		"jackpot":     rec.Jackpot,
		"lamports":    rec.LamportsPaid,
	}).Info("draw settled")

	if ge.broadcaster != nil {
		ge.broadcaster.BroadcastDraw(rec)
		ge.broadcaster.BroadcastLeaderboard(g.leaderboard.Users, g.staking.Lamports)
	}
	if ge.recorder != nil {
		if err := ge.recorder.Record(ctx, rec); err != nil {
			ge.metrics.RecordAuditFailure()
			ge.logger.WithError(err).WithField("draw_id", rec.ID).Error("failed to record draw")
		}
	}

	return rec, nil
}

// settleWin applies a prime draw: the jackpot share, the treasury payout and
// the new exchange rate.
func (ge *GameEngine) settleWin(g *globals, user *models.User, wallet *models.Wallet, r *models.DrawRecord) error {
	powerUp := PowerUpFor(r.Slot, user.LastWonSlot)

	var reward int64
	if g.jackpot.Amount > 0 {
		share, err := ledger.MulDiv(uint64(g.jackpot.Amount), uint64(powerUp), basisPoints)
		if err != nil {
			return err
		}
		reward = int64(share)
	}

	user.Points += reward
	user.WonPoints += reward
	user.LastWonSlot = r.Slot
	g.total.Points += uint64(reward)

	g.jackpot.Winner = r.Participant
	g.jackpot.Amount -= reward
	if g.jackpot.Amount < 0 {
		g.jackpot.Amount = 0
	}

	paid, drained, err := PayoutWinner(&g.treasury.Account, &wallet.Account, r.Candidate, powerUp, ge.reserve(g.treasury.Size))
	if err != nil {
		return fmt.Errorf("treasury payout: %w", err)
	}

	g.rate.Value = RecalculateRate(g.staking.Lamports, g.total.Points)

	r.PowerUp = powerUp.Float()
	r.Reward = reward
	r.LamportsPaid = paid
	r.DrainedTreasury = drained
	return nil
}

// PayForPoints buys PointsPerPurchase points with the participant's wallet.
// The price is split between the treasury and the staking pool.
func (ge *GameEngine) PayForPoints(ctx context.Context, addr models.Address) (*models.PurchaseResult, error) {
	slot := ge.clock.Slot()

	var (
		result *models.PurchaseResult
		g      *globals
	)
	err := ge.store.Update(ctx, store.ParticipantKeys(addr), func(tx store.Tx) error {
		var err error
		if g, err = loadGlobals(tx); err != nil {
			return err
		}
		user, err := loadUser(tx, addr)
		if err != nil {
			return err
		}
		wallet, err := loadWallet(tx, addr)
		if err != nil {
			return err
		}
		if wallet.Lamports < PurchasePriceLamports {
			return fmt.Errorf("%w: wallet holds %d lamports, need %d",
				ledger.ErrInsufficientFunds, wallet.Lamports, PurchasePriceLamports)
		}

		toStaking, err := ledger.MulDiv(PurchasePriceLamports, stakingShareBps, basisPoints)
		if err != nil {
			return err
		}
		toTreasury := uint64(PurchasePriceLamports) - toStaking

		if err := ledger.Transfer(&wallet.Account, &g.treasury.Account, toTreasury); err != nil {
			return err
		}
		if err := ledger.Transfer(&wallet.Account, &g.staking.Account, toStaking); err != nil {
			return err
		}
		user.Points += PointsPerPurchase
		g.treasury.Amount += PointsPerPurchase

		if err := ge.saveParticipant(tx, g, addr, user, wallet); err != nil {
			return err
		}
		if err := prependTransaction(tx, addr, &models.Transaction{
			ID:          models.GenerateTransactionID(),
			Participant: addr,
			Type:        models.TransactionTypePurchase,
			Slot:        slot,
			Lamports:    PurchasePriceLamports,
			Points:      PointsPerPurchase,
			Description: fmt.Sprintf("bought %d points", PointsPerPurchase),
			CreatedAt:   ge.now().UTC(),
		}); err != nil {
			return err
		}

		result = &models.PurchaseResult{
			Points:           user.Points,
			PointsBought:     PointsPerPurchase,
			LamportsPaid:     PurchasePriceLamports,
			TreasuryLamports: g.treasury.Lamports,
			StakingLamports:  g.staking.Lamports,
		}
		return nil
	})
	ge.metrics.RecordOperation("purchase", err)
	if err != nil {
		return nil, err
	}

	ge.observeState(g)
	ge.logger.WithFields(logrus.Fields{
		"participant": addr.String(),
		"points":      result.Points,
	}).Info("points purchased")
	return result, nil
}

// TradeWonPoints redeems TradeUnit won points for lamports from the staking
// pool at the current rate. The rate itself is left as is.
func (ge *GameEngine) TradeWonPoints(ctx context.Context, addr models.Address) (*models.TradeResult, error) {
	slot := ge.clock.Slot()

	var (
		result *models.TradeResult
		g      *globals
	)
	err := ge.store.Update(ctx, store.ParticipantKeys(addr), func(tx store.Tx) error {
		var err error
		if g, err = loadGlobals(tx); err != nil {
			return err
		}
		user, err := loadUser(tx, addr)
		if err != nil {
			return err
		}
		if user.WonPoints < TradeUnit {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientWonPoints, user.WonPoints, TradeUnit)
		}
		if g.total.Points < TradeUnit {
			return fmt.Errorf("total won points %d: %w", g.total.Points, ledger.ErrUnderflow)
		}
		wallet, err := loadWallet(tx, addr)
		if err != nil {
			return err
		}

		lamports := tradeValue(g.rate.Value)
		if err := ledger.TransferAboveFloor(&g.staking.Account, &wallet.Account, lamports, ge.reserve(g.staking.Size)); err != nil {
			return err
		}
		user.WonPoints -= TradeUnit
		g.total.Points -= TradeUnit
		g.leaderboard.Update(addr, user.WonPoints)

		if err := ge.saveParticipant(tx, g, addr, user, wallet); err != nil {
			return err
		}
		if err := prependTransaction(tx, addr, &models.Transaction{
			ID:          models.GenerateTransactionID(),
			Participant: addr,
			Type:        models.TransactionTypeTrade,
			Slot:        slot,
			Lamports:    lamports,
			WonPoints:   -TradeUnit,
			Description: fmt.Sprintf("traded %d won points at %g", TradeUnit, g.rate.Value),
			CreatedAt:   ge.now().UTC(),
		}); err != nil {
			return err
		}

		result = &models.TradeResult{
			WonPointsSpent: TradeUnit,
			Lamports:       lamports,
			Rate:           g.rate.Value,
			WonPoints:      user.WonPoints,
			TotalWonPoints: g.total.Points,
		}
		return nil
	})
	ge.metrics.RecordOperation("trade", err)
	if err != nil {
		return nil, err
	}

	ge.metrics.RecordPayout("staking", result.Lamports)
	ge.observeState(g)
	ge.logger.WithFields(logrus.Fields{
		"participant": addr.String(),
		"lamports":    result.Lamports,
		"rate":        result.Rate,
	}).Info("won points traded")
	if ge.broadcaster != nil {
		ge.broadcaster.BroadcastLeaderboard(g.leaderboard.Users, g.staking.Lamports)
	}
	return result, nil
}

// ClaimLamports pays the participant's share of the staking pool yield,
// proportional to their won points. Claims are spaced ClaimInterval slots
// apart.
func (ge *GameEngine) ClaimLamports(ctx context.Context, addr models.Address) (*models.ClaimResult, error) {
	slot := ge.clock.Slot()

	var (
		result *models.ClaimResult
		g      *globals
	)
	err := ge.store.Update(ctx, store.ParticipantKeys(addr), func(tx store.Tx) error {
		var err error
		if g, err = loadGlobals(tx); err != nil {
			return err
		}
		user, err := loadUser(tx, addr)
		if err != nil {
			return err
		}
		if user.LastClaimedSlot != 0 && slot < user.LastClaimedSlot+ClaimInterval {
			return fmt.Errorf("%w: next claim at slot %d", ErrClaimTooSoon, user.LastClaimedSlot+ClaimInterval)
		}
		if user.WonPoints <= 0 || g.total.Points == 0 {
			return ErrNothingToClaim
		}
		wallet, err := loadWallet(tx, addr)
		if err != nil {
			return err
		}

		available, err := g.staking.Available(ge.reserve(g.staking.Size))
		if err != nil {
			return err
		}
		proportional, err := ledger.MulDiv(available, uint64(user.WonPoints), g.total.Points)
		if err != nil {
			return err
		}
		share, err := ledger.MulDiv(proportional, claimShareBps, basisPoints)
		if err != nil {
			return err
		}
		if share == 0 {
			return ErrNothingToClaim
		}

		if err := ledger.TransferAboveFloor(&g.staking.Account, &wallet.Account, share, ge.reserve(g.staking.Size)); err != nil {
			return err
		}
		user.LastClaimedSlot = slot
		user.LastClaimedLamports = share

		if err := ge.saveParticipant(tx, g, addr, user, wallet); err != nil {
			return err
		}
		if err := prependTransaction(tx, addr, &models.Transaction{
			ID:          models.GenerateTransactionID(),
			Participant: addr,
			Type:        models.TransactionTypeClaim,
			Slot:        slot,
			Lamports:    share,
			Description: "staking yield claim",
			CreatedAt:   ge.now().UTC(),
		}); err != nil {
			return err
		}

		result = &models.ClaimResult{
			Lamports:        share,
			Slot:            slot,
			StakingLamports: g.staking.Lamports,
		}
		return nil
	})
	ge.metrics.RecordOperation("claim", err)
	if err != nil {
		return nil, err
	}

	ge.metrics.RecordPayout("staking", result.Lamports)
	ge.observeState(g)
	ge.logger.WithFields(logrus.Fields{
		"participant": addr.String(),
		"lamports":    result.Lamports,
		"slot":        slot,
	}).Info("lamports claimed")
	return result, nil
}

// Airdrop credits lamports to a wallet. Development only.
func (ge *GameEngine) Airdrop(ctx context.Context, addr models.Address, lamports uint64) (uint64, error) {
	if !ge.allowAirdrop {
		return 0, ErrAirdropDisabled
	}
	slot := ge.clock.Slot()

	var balance uint64
	keys := []string{store.WalletKey(addr), store.UserTransactionsKey(addr)}
	err := ge.store.Update(ctx, keys, func(tx store.Tx) error {
		wallet, err := loadWallet(tx, addr)
		if err != nil {
			return err
		}
		if err := wallet.Credit(lamports); err != nil {
			return err
		}
		if err := tx.Put(store.WalletKey(addr), wallet); err != nil {
			return err
		}
		balance = wallet.Lamports
		return prependTransaction(tx, addr, &models.Transaction{
			ID:          models.GenerateTransactionID(),
			Participant: addr,
			Type:        models.TransactionTypeAirdrop,
			Slot:        slot,
			Lamports:    lamports,
			Description: "airdrop",
			CreatedAt:   ge.now().UTC(),
		})
	})
	ge.metrics.RecordOperation("airdrop", err)
	if err != nil {
		return 0, err
	}

	ge.logger.WithFields(logrus.Fields{
		"participant": addr.String(),
		"lamports":    lamports,
	}).Info("airdrop credited")
	return balance, nil
}

func (ge *GameEngine) saveParticipant(tx store.Tx, g *globals, addr models.Address, user *models.User, wallet *models.Wallet) error {
	if err := g.save(tx); err != nil {
		return err
	}
	if err := tx.Put(store.UserKey(addr), user); err != nil {
		return err
	}
	return tx.Put(store.WalletKey(addr), wallet)
}

func (ge *GameEngine) observeState(g *globals) {
	ge.metrics.RecordState(g.jackpot.Amount, g.treasury.Lamports, g.staking.Lamports, g.total.Points, g.rate.Value)
}
