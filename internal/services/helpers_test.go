package services_test

import (
	"context"
	"sync"
	"testing"

	"prime-slot-backend/internal/chain"
	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/primality"
	"prime-slot-backend/internal/services"
	"prime-slot-backend/internal/store"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testFloor = 1000

type fixture struct {
	engine *services.GameEngine
	store  *store.MemoryStore
	clock  *chain.FixedClock
	hook   *test.Hook
}

func newFixture(t *testing.T, opts ...services.Option) *fixture {
	t.Helper()

	st := store.NewMemoryStore()
	clock := &chain.FixedClock{CurrentSlot: 1000, Unix: 1_700_000_000}
	logger, hook := test.NewNullLogger()

	all := append([]services.Option{
		services.WithLogger(logger),
		services.WithReserve(chain.FlatReserve(testFloor)),
	}, opts...)

	return &fixture{
		engine: services.NewGameEngine(st, clock, primality.TrialDivision{}, all...),
		store:  st,
		clock:  clock,
		hook:   hook,
	}
}

func (f *fixture) initialize(t *testing.T, req models.InitializeRequest) {
	t.Helper()
	_, err := f.engine.InitializeGlobals(context.Background(), req)
	require.NoError(t, err)
}

func (f *fixture) newUser(t *testing.T, addr models.Address) {
	t.Helper()
	_, err := f.engine.InitializeUser(context.Background(), addr)
	require.NoError(t, err)
}

func (f *fixture) put(t *testing.T, key string, v any) {
	t.Helper()
	require.NoError(t, f.store.Update(context.Background(), []string{key}, func(tx store.Tx) error {
		return tx.Put(key, v)
	}))
}

func (f *fixture) get(t *testing.T, key string, v any) {
	t.Helper()
	require.NoError(t, f.store.View(context.Background(), []string{key}, func(tx store.Tx) error {
		ok, err := tx.Get(key, v)
		require.True(t, ok, "missing %s", key)
		return err
	}))
}

func (f *fixture) user(t *testing.T, addr models.Address) models.User {
	t.Helper()
	var u models.User
	f.get(t, store.UserKey(addr), &u)
	return u
}

func (f *fixture) jackpot(t *testing.T) models.Jackpot {
	t.Helper()
	var j models.Jackpot
	f.get(t, store.KeyJackpot, &j)
	return j
}

func addr(b byte) models.Address {
	var a models.Address
	for i := range a {
		a[i] = b
	}
	return a
}

type recordingBroadcaster struct {
	mu          sync.Mutex
	draws       []*models.DrawRecord
	leaderboard [][]models.LeaderboardEntry
}

func (b *recordingBroadcaster) BroadcastDraw(rec *models.DrawRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draws = append(b.draws, rec)
}

func (b *recordingBroadcaster) BroadcastLeaderboard(board []models.LeaderboardEntry, _ uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaderboard = append(b.leaderboard, board)
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(context.Context, *models.DrawRecord) error {
	r.calls++
	return context.DeadlineExceeded
}
