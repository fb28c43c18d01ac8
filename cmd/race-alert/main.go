// Race-alert handler, invoked per fired trigger. The pre phase sends a
// deadline reminder with the stored bets and the just-before page; the
// post phase extracts that race's result and settles its bets. The
// handler is idempotent: everything it needs comes from the payload and
// the store, so a refire repeats the same work and upserts the same
// records.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sunagitsune/kyoteibet/internal/pkg/config"
	"github.com/sunagitsune/kyoteibet/internal/pkg/extract"
	"github.com/sunagitsune/kyoteibet/internal/pkg/fetch"
	"github.com/sunagitsune/kyoteibet/internal/pkg/logging"
	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
	"github.com/sunagitsune/kyoteibet/internal/pkg/notify"
	"github.com/sunagitsune/kyoteibet/internal/pkg/report"
	"github.com/sunagitsune/kyoteibet/internal/pkg/scheduler"
	"github.com/sunagitsune/kyoteibet/internal/pkg/settle"
	"github.com/sunagitsune/kyoteibet/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	payload    string // trigger payload JSON; TRIGGER_PAYLOAD env as fallback
}

func main() {
	if err := run(); err != nil {
		slog.Error("Race alert failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", defaultConfigPath, "path to config file")
	flag.StringVar(&f.payload, "payload", "", "trigger payload JSON")
	flag.Parse()
	if f.payload == "" {
		f.payload = os.Getenv("TRIGGER_PAYLOAD")
	}
	return f
}

func run() error {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetupLogger(&cfg.Logging, "race-alert")

	var payload scheduler.TriggerPayload
	if err := json.Unmarshal([]byte(f.payload), &payload); err != nil {
		return fmt.Errorf("failed to decode trigger payload: %w", err)
	}
	slog.Info("Trigger fired",
		"phase", payload.Phase, "race", payload.RaceNo, "venue", payload.VenueName)

	sink, err := notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return fmt.Errorf("failed to create notification sink: %w", err)
	}

	ctx := context.Background()
	if err := handle(ctx, cfg, payload, sink); err != nil {
		stage := fmt.Sprintf("race-alert %s %dR", payload.Phase, payload.RaceNo)
		if sendErr := sink.Send(report.Error(stage, err)); sendErr != nil {
			slog.Error("failed to send error notification", "error", sendErr)
		}
		return err
	}
	return nil
}

func handle(ctx context.Context, cfg *config.Config, p scheduler.TriggerPayload, sink notify.Sink) error {
	store, err := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer store.Close()

	client := fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.Delay, cfg.Fetch.UserAgent)

	switch p.Phase {
	case scheduler.PhasePre:
		return preRace(ctx, store, client, p, sink)
	case scheduler.PhasePost:
		return postRace(ctx, cfg, store, client, p, sink)
	default:
		return fmt.Errorf("unknown trigger phase %q", p.Phase)
	}
}

func preRace(ctx context.Context, store storage.Store, client *fetch.Client, p scheduler.TriggerPayload, sink notify.Sink) error {
	bets := storedBets(ctx, store, p)

	rno := fmt.Sprintf("%d", p.RaceNo)
	infoText, err := client.PageText(ctx, fetch.BeforeInfoURL(rno, p.VenueCode, p.Date))
	if err != nil {
		slog.Warn("failed to fetch just-before info", "race", p.RaceNo, "error", err)
	}
	oddsText, err := client.PageText(ctx, fetch.TrifectaOddsURL(rno, p.VenueCode, p.Date))
	if err != nil {
		slog.Warn("failed to fetch trifecta odds", "race", p.RaceNo, "error", err)
	}
	if oddsText != "" {
		if infoText != "" {
			infoText += "\n\n"
		}
		infoText = fetch.CapText(infoText + oddsText)
	}

	return sink.Send(report.PreRace(p, bets, infoText))
}

func postRace(ctx context.Context, cfg *config.Config, store storage.Store, client *fetch.Client, p scheduler.TriggerPayload, sink notify.Sink) error {
	rno := fmt.Sprintf("%d", p.RaceNo)
	markup, err := client.Page(ctx, fetch.RaceResultURL(rno, p.VenueCode, p.Date))
	if err != nil {
		return fmt.Errorf("failed to fetch race result page: %w", err)
	}

	result, ok := extract.ParseRaceResult(markup, p.RaceNo)
	if !ok {
		slog.Warn("result not yet published", "race", p.RaceNo)
		return sink.Send(report.PostRace(p, nil))
	}

	if err := store.PutRaceResult(ctx, p.RacerNo, p.Date, result); err != nil {
		return fmt.Errorf("failed to persist race result: %w", err)
	}

	var settled []models.SettledBet
	for _, bet := range storedBets(ctx, store, p) {
		settled = append(settled, settle.SettleBet(p.RaceNo, bet, &result))
	}

	if cfg.Postgres.DSN != "" && len(settled) > 0 {
		ledger, err := storage.NewPostgresLedger(cfg.Postgres.DSN)
		if err != nil {
			slog.Error("ledger unavailable; outcomes not recorded", "error", err)
		} else {
			defer ledger.Close()
			if err := ledger.RecordOutcomes(ctx, p.RacerNo, p.Date, settled); err != nil {
				slog.Error("failed to record outcomes in ledger", "error", err)
			}
		}
	}

	slog.Info("Race settled", "race", p.RaceNo, "trifecta", result.Trifecta, "payout", result.Payout)
	return sink.Send(report.PostRace(p, settled))
}

// storedBets loads this race's predicted bets from the morning record.
// A missing record is not fatal: the alert still goes out without them.
func storedBets(ctx context.Context, store storage.Store, p scheduler.TriggerPayload) []models.BetPick {
	rec, err := store.GetMorning(ctx, p.RacerNo, p.Date)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("failed to load morning record", "error", err)
		}
		return nil
	}
	for _, pred := range rec.Predictions {
		if pred.RaceNo == p.RaceNo {
			return pred.Bets
		}
	}
	return nil
}
