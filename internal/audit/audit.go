// Package audit persists settled draws to Postgres for offline review.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"prime-slot-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const schema = `CREATE TABLE IF NOT EXISTS draw_records (
	id                TEXT PRIMARY KEY,
	slot              BIGINT NOT NULL,
	participant       TEXT NOT NULL,
	candidate         NUMERIC(20) NOT NULL,
	prime             BOOLEAN NOT NULL,
	power_up          DOUBLE PRECISION NOT NULL,
	reward            BIGINT NOT NULL,
	jackpot_increment BIGINT NOT NULL,
	lamports_paid     NUMERIC(20) NOT NULL,
	jackpot           BIGINT NOT NULL,
	total_won_points  NUMERIC(20) NOT NULL,
	rate              DOUBLE PRECISION NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL
)`

const insertDraw = `INSERT INTO draw_records (
	id, slot, participant, candidate, prime, power_up, reward,
	jackpot_increment, lamports_paid, jackpot, total_won_points, rate, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO NOTHING`

// Open connects to dsn through pgx. Simple protocol avoids server-side
// prepared statements, which transaction poolers reject.
func Open(dsn string) (*sql.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db := stdlib.OpenDB(*config)
	db.SetConnMaxIdleTime(4 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

type SQLRecorder struct {
	db *sql.DB
}

func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

func (r *SQLRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create draw_records: %w", err)
	}
	return nil
}

func (r *SQLRecorder) Record(ctx context.Context, rec *models.DrawRecord) error {
	_, err := r.db.ExecContext(ctx, insertDraw,
		rec.ID,
		int64(rec.Slot),
		rec.Participant.String(),
		strconv.FormatUint(rec.Candidate, 10),
		rec.Prime,
		rec.PowerUp,
		rec.Reward,
		rec.JackpotIncrement,
		strconv.FormatUint(rec.LamportsPaid, 10),
		rec.Jackpot,
		strconv.FormatUint(rec.TotalWonPoints, 10),
		rec.Rate,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert draw %s: %w", rec.ID, err)
	}
	return nil
}

func (r *SQLRecorder) Close() error {
	return r.db.Close()
}
