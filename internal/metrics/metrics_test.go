package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector("test")
	if c == nil {
		t.Fatal("NewCollector returned nil")
	}
	if c.Registry() == nil {
		t.Error("registry should not be nil")
	}
}

func TestCollector_Draws(t *testing.T) {
	c := NewCollector("test")

	c.RecordDraw("win", 10, 500, time.Millisecond)
	c.RecordDraw("loss", 0, 0, time.Millisecond)
	c.RecordDraw("loss", 0, 0, time.Millisecond)

	if got := testutil.ToFloat64(c.draws.WithLabelValues("loss")); got != 2 {
		t.Errorf("expected 2 losses, got %v", got)
	}
	if got := testutil.ToFloat64(c.rewards); got != 10 {
		t.Errorf("expected 10 reward points, got %v", got)
	}
	if got := testutil.ToFloat64(c.lamportsPaid.WithLabelValues("treasury")); got != 500 {
		t.Errorf("expected 500 lamports, got %v", got)
	}
}

func TestCollector_Operations(t *testing.T) {
	c := NewCollector("test")

	c.RecordOperation("trade", nil)
	c.RecordOperation("trade", errors.New("insufficient won points"))
	c.RecordPayout("staking", 2)
	c.RecordState(90, 1_000_000, 5_000, 10, 0.5)
	c.RecordAuditFailure()
	c.RecordWebsocketSessions(3)

	if got := testutil.ToFloat64(c.operations.WithLabelValues("trade", "error")); got != 1 {
		t.Errorf("expected 1 failed trade, got %v", got)
	}
	if got := testutil.ToFloat64(c.jackpot); got != 90 {
		t.Errorf("expected jackpot 90, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.RecordDraw("win", 1, 0, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_draw_total{outcome="win"} 1`) {
		t.Errorf("draw counter missing from exposition:\n%s", body)
	}
}

func TestNoOpCollector(t *testing.T) {
	c := NewNoOpCollector()

	// Should not panic
	c.RecordDraw("win", 1, 1, time.Second)
	c.RecordPayout("staking", 1)
	c.RecordOperation("claim", nil)
	c.RecordState(0, 0, 0, 0, 0)
	c.RecordAuditFailure()
	c.RecordWebsocketSessions(0)
}
