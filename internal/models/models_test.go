package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"prime-slot-backend/internal/models"
)

func addr(b byte) models.Address {
	var a models.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func TestModels(t *testing.T) {
	user := models.NewUser()
	if user.Points != 1000 {
		t.Errorf("Expected starting points 1000, got %d", user.Points)
	}
	if user.Version != models.UserVersion {
		t.Errorf("Expected version %d, got %d", models.UserVersion, user.Version)
	}

	if id := models.GenerateDrawID(); !strings.HasPrefix(id, "draw_") {
		t.Errorf("Unexpected draw id %q", id)
	}
	if models.GenerateTransactionID() == models.GenerateTransactionID() {
		t.Error("Transaction ids should be unique")
	}
}

func TestUserUpgradeFromV1(t *testing.T) {
	var user models.User
	if err := json.Unmarshal([]byte(`{"points": 420}`), &user); err != nil {
		t.Fatalf("Failed to decode v1 user: %v", err)
	}
	user.Upgrade()
	if user.Version != models.UserVersion || user.Points != 420 || user.WonPoints != 0 {
		t.Errorf("Unexpected upgraded user %+v", user)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	a := addr(7)
	parsed, err := models.ParseAddress(a.String())
	if err != nil {
		t.Fatalf("ParseAddress failed: %v", err)
	}
	if parsed != a {
		t.Errorf("Address mismatch: %s != %s", parsed, a)
	}

	if _, err := models.ParseAddress("abc"); err == nil {
		t.Error("Short address should fail")
	}
	if _, err := models.ParseAddress("0OIl"); err == nil {
		t.Error("Non-base58 address should fail")
	}

	var zero models.Address
	if !zero.IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestPlayerHistory(t *testing.T) {
	var h models.PlayerHistory
	for i := 1; i <= 12; i++ {
		h.Push(addr(byte(i)))
	}
	if len(h.Players) != models.PlayerHistoryCapacity {
		t.Fatalf("Expected %d players, got %d", models.PlayerHistoryCapacity, len(h.Players))
	}
	if h.Players[0] != addr(3) || h.Players[9] != addr(12) {
		t.Errorf("Oldest entries should be evicted first: %v", h.Players)
	}

	h.Push(addr(5))
	if len(h.Players) != models.PlayerHistoryCapacity {
		t.Fatalf("Re-pushing should not grow history, got %d", len(h.Players))
	}
	if h.Players[9] != addr(5) || h.Players[0] != addr(3) {
		t.Errorf("Re-pushed address should move to newest: %v", h.Players)
	}
}

func TestLeaderboard(t *testing.T) {
	var lb models.Leaderboard
	lb.Update(addr(1), 10)
	lb.Update(addr(2), 30)
	lb.Update(addr(3), 20)
	lb.Update(addr(1), 40)

	if len(lb.Users) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(lb.Users))
	}
	want := []int64{40, 30, 20}
	for i, e := range lb.Users {
		if e.Points != want[i] {
			t.Errorf("Entry %d: expected %d, got %d", i, want[i], e.Points)
		}
	}
	if lb.Rank(addr(1)) != 1 || lb.Rank(addr(9)) != 0 {
		t.Error("Rank mismatch")
	}

	for i := 0; i < 150; i++ {
		lb.Update(addr(byte(i+10)), int64(i))
	}
	if len(lb.Users) != models.LeaderboardCapacity {
		t.Errorf("Expected leaderboard truncated to %d, got %d", models.LeaderboardCapacity, len(lb.Users))
	}
	if lb.Users[0].Points != 149 {
		t.Errorf("Expected top score 149, got %d", lb.Users[0].Points)
	}
}

func TestTreasuryJSONLayout(t *testing.T) {
	tr := models.Treasury{Amount: 5}
	tr.Lamports = 99
	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"amount":5,"lamports":99,"size":0}` {
		t.Errorf("Unexpected layout %s", data)
	}
}
