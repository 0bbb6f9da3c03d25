package models

import "sort"

const (
	PlayerHistoryCapacity = 10
	LeaderboardCapacity   = 100
)

// Jackpot is the shared pool a winning draw pays from.
type Jackpot struct {
	Amount int64   `json:"amount"`
	Winner Address `json:"winner"`
}

// TotalWonPoints always equals the sum of every user's WonPoints.
type TotalWonPoints struct {
	Points uint64 `json:"points"`
}

// Rate is lamports paid per won point.
type Rate struct {
	Value float64 `json:"value"`
}

// PlayerHistory holds the most recent distinct participants, oldest first.
type PlayerHistory struct {
	Players []Address `json:"players"`
}

// Push records addr as the newest participant. An address already present
// moves to the newest position; past capacity the oldest is evicted.
func (h *PlayerHistory) Push(addr Address) {
	kept := make([]Address, 0, len(h.Players)+1)
	for _, p := range h.Players {
		if p != addr {
			kept = append(kept, p)
		}
	}
	kept = append(kept, addr)
	if over := len(kept) - PlayerHistoryCapacity; over > 0 {
		kept = kept[over:]
	}
	h.Players = kept
}

type LeaderboardEntry struct {
	User   Address `json:"user"`
	Points int64   `json:"points"`
}

// Leaderboard is kept sorted by Points descending, one entry per user.
type Leaderboard struct {
	Users []LeaderboardEntry `json:"users"`
}

func (l *Leaderboard) Update(user Address, wonPoints int64) {
	entries := make([]LeaderboardEntry, 0, len(l.Users)+1)
	for _, e := range l.Users {
		if e.User != user {
			entries = append(entries, e)
		}
	}
	entries = append(entries, LeaderboardEntry{User: user, Points: wonPoints})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	if len(entries) > LeaderboardCapacity {
		entries = entries[:LeaderboardCapacity]
	}
	l.Users = entries
}

// Rank returns the 1-based position of user, or 0 if absent.
func (l *Leaderboard) Rank(user Address) int {
	for i, e := range l.Users {
		if e.User == user {
			return i + 1
		}
	}
	return 0
}
