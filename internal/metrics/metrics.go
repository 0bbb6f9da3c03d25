// Package metrics exposes draw engine telemetry through a private Prometheus
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	draws             *prometheus.CounterVec
	drawLatency       prometheus.Histogram
	rewards           prometheus.Counter
	lamportsPaid      *prometheus.CounterVec
	operations        *prometheus.CounterVec
	jackpot           prometheus.Gauge
	treasuryLamports  prometheus.Gauge
	stakingLamports   prometheus.Gauge
	totalWonPoints    prometheus.Gauge
	rate              prometheus.Gauge
	auditFailures     prometheus.Counter
	websocketSessions prometheus.Gauge
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "prime_slot"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.draws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "total",
			Help:      "Committed draws by outcome",
		},
		[]string{"outcome"},
	)

	c.drawLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "duration_seconds",
			Help:      "Time taken to run and commit a draw",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
	)

	c.rewards = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "reward_points_total",
			Help:      "Points paid out of the jackpot to winners",
		},
	)

	c.lamportsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "lamports_paid_total",
			Help:      "Lamports moved to participants by source account",
		},
		[]string{"source"},
	)

	c.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Engine operations by name and result",
		},
		[]string{"operation", "result"},
	)

	c.jackpot = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "state", Name: "jackpot_points",
		Help: "Current jackpot pool",
	})
	c.treasuryLamports = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "state", Name: "treasury_lamports",
		Help: "Treasury balance",
	})
	c.stakingLamports = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "state", Name: "staking_treasury_lamports",
		Help: "Staking treasury balance",
	})
	c.totalWonPoints = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "state", Name: "total_won_points",
		Help: "Outstanding won points across all users",
	})
	c.rate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "state", Name: "rate_lamports_per_point",
		Help: "Won points exchange rate",
	})

	c.auditFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "failures_total",
			Help:      "Draw records the audit sink failed to persist",
		},
	)

	c.websocketSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "websocket", Name: "sessions",
		Help: "Connected websocket clients",
	})

	c.registry.MustRegister(
		c.draws,
		c.drawLatency,
		c.rewards,
		c.lamportsPaid,
		c.operations,
		c.jackpot,
		c.treasuryLamports,
		c.stakingLamports,
		c.totalWonPoints,
		c.rate,
		c.auditFailures,
		c.websocketSessions,
	)

	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordDraw(outcome string, reward int64, lamports uint64, d time.Duration) {
	c.draws.WithLabelValues(outcome).Inc()
	c.drawLatency.Observe(d.Seconds())
	if reward > 0 {
		c.rewards.Add(float64(reward))
	}
	if lamports > 0 {
		c.lamportsPaid.WithLabelValues("treasury").Add(float64(lamports))
	}
}

// RecordPayout counts lamports paid from a non-draw source such as the
// staking treasury.
func (c *Collector) RecordPayout(source string, lamports uint64) {
	c.lamportsPaid.WithLabelValues(source).Add(float64(lamports))
}

func (c *Collector) RecordOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.operations.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordState(jackpot int64, treasury, staking, totalWon uint64, rate float64) {
	c.jackpot.Set(float64(jackpot))
	c.treasuryLamports.Set(float64(treasury))
	c.stakingLamports.Set(float64(staking))
	c.totalWonPoints.Set(float64(totalWon))
	c.rate.Set(rate)
}

func (c *Collector) RecordAuditFailure() {
	c.auditFailures.Inc()
}

func (c *Collector) RecordWebsocketSessions(n int) {
	c.websocketSessions.Set(float64(n))
}

// NoOpCollector discards everything.
type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (*NoOpCollector) RecordDraw(outcome string, reward int64, lamports uint64, d time.Duration)   {}
func (*NoOpCollector) RecordPayout(source string, lamports uint64)                                 {}
func (*NoOpCollector) RecordOperation(operation string, err error)                                 {}
func (*NoOpCollector) RecordState(jackpot int64, treasury, staking, totalWon uint64, rate float64) {}
func (*NoOpCollector) RecordAuditFailure()                                                         {}
func (*NoOpCollector) RecordWebsocketSessions(int)                                                 {}
