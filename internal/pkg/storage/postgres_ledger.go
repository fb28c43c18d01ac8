package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// PostgresLedger keeps the append-only per-bet outcome history. The KV
// store answers "what happened today"; the ledger answers "how has this
// been going" across any horizon.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger opens the connection and initializes the schema.
func NewPostgresLedger(dsn string) (*PostgresLedger, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	ledger := &PostgresLedger{db: db}
	if err := ledger.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL outcome ledger initialized")
	return ledger, nil
}

func (l *PostgresLedger) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS bet_outcomes (
		id SERIAL PRIMARY KEY,
		racer_no VARCHAR(10) NOT NULL,
		race_date VARCHAR(8) NOT NULL,
		race_no INTEGER NOT NULL,
		combination VARCHAR(20) NOT NULL,
		bet_amount INTEGER NOT NULL,
		actual_result VARCHAR(20) NOT NULL,
		payout_per_100 INTEGER NOT NULL,
		hit BOOLEAN NOT NULL,
		return_amount INTEGER NOT NULL,
		settled_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(racer_no, race_date, race_no, combination)
	);

	CREATE INDEX IF NOT EXISTS idx_bet_outcomes_racer_date ON bet_outcomes(racer_no, race_date);
	CREATE INDEX IF NOT EXISTS idx_bet_outcomes_hit ON bet_outcomes(hit);
	`

	_, err := l.db.ExecContext(ctx, query)
	return err
}

// RecordOutcomes upserts one settled bet per row. Re-settling the same
// race (a refired trigger, a re-run evening job) overwrites in place
// instead of duplicating.
func (l *PostgresLedger) RecordOutcomes(ctx context.Context, racerNo, date string, results []models.SettledBet) error {
	if len(results) == 0 {
		return nil
	}

	query := `
	INSERT INTO bet_outcomes
		(racer_no, race_date, race_no, combination, bet_amount, actual_result, payout_per_100, hit, return_amount, settled_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	ON CONFLICT (racer_no, race_date, race_no, combination) DO UPDATE SET
		bet_amount = EXCLUDED.bet_amount,
		actual_result = EXCLUDED.actual_result,
		payout_per_100 = EXCLUDED.payout_per_100,
		hit = EXCLUDED.hit,
		return_amount = EXCLUDED.return_amount,
		settled_at = NOW()
	`

	for _, r := range results {
		_, err := l.db.ExecContext(ctx, query,
			racerNo, date, r.RaceNo, r.Combination, r.BetAmount,
			r.ActualResult, r.PayoutPer100, r.Hit, r.ReturnAmount)
		if err != nil {
			return fmt.Errorf("failed to record outcome for race %d bet %s: %w", r.RaceNo, r.Combination, err)
		}
	}
	return nil
}

// Totals sums the full ledger history for one racer.
func (l *PostgresLedger) Totals(ctx context.Context, racerNo string) (totalBet, totalReturn int, err error) {
	query := `
	SELECT COALESCE(SUM(bet_amount), 0), COALESCE(SUM(return_amount), 0)
	FROM bet_outcomes WHERE racer_no = $1
	`
	if err := l.db.QueryRowContext(ctx, query, racerNo).Scan(&totalBet, &totalReturn); err != nil {
		return 0, 0, fmt.Errorf("failed to query ledger totals: %w", err)
	}
	return totalBet, totalReturn, nil
}

func (l *PostgresLedger) Close() error {
	return l.db.Close()
}
