// Package storage persists the day's schedule, predictions, results
// and the running balance. The primary store is a flat key-value view
// keyed by (racer_no, "{date}#phase"); the Postgres ledger keeps an
// append-only per-bet outcome history on top of it.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// ErrNotFound is returned when a key has no record.
var ErrNotFound = errors.New("storage: record not found")

// Store is the key-value persistence collaborator.
type Store interface {
	// PutMorning saves the morning schedule+prediction record under
	// (racer, "{date}#schedule").
	PutMorning(ctx context.Context, rec *models.MorningRecord) error

	// GetMorning loads the morning record, or ErrNotFound.
	GetMorning(ctx context.Context, racerNo, date string) (*models.MorningRecord, error)

	// PutRaceResult saves one race's extracted result under
	// (racer, "{date}#result#{race}").
	PutRaceResult(ctx context.Context, racerNo, date string, res models.RaceResult) error

	// GetRaceResult loads one race's result, or ErrNotFound.
	GetRaceResult(ctx context.Context, racerNo, date string, raceNo int) (*models.RaceResult, error)

	// PutSettlement saves the evening settlement under
	// (racer, "{date}#settlement").
	PutSettlement(ctx context.Context, s *models.DailySettlement) error

	// GetCumulative loads the running balance under (racer,
	// "cumulative"), or ErrNotFound for a fresh racer.
	GetCumulative(ctx context.Context, racerNo string) (*models.Cumulative, error)

	// PutCumulative replaces the running balance.
	PutCumulative(ctx context.Context, c *models.Cumulative) error

	Close() error
}

func scheduleKey(racerNo, date string) string {
	return fmt.Sprintf("kyoteibet:%s:%s#schedule", racerNo, date)
}

func raceResultKey(racerNo, date string, raceNo int) string {
	return fmt.Sprintf("kyoteibet:%s:%s#result#%d", racerNo, date, raceNo)
}

func settlementKey(racerNo, date string) string {
	return fmt.Sprintf("kyoteibet:%s:%s#settlement", racerNo, date)
}

func cumulativeKey(racerNo string) string {
	return fmt.Sprintf("kyoteibet:%s:cumulative", racerNo)
}
