// Evening job: fetch the day's result listing, settle every predicted
// bet, update the daily and cumulative balance and send the digest.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sunagitsune/kyoteibet/internal/pkg/config"
	"github.com/sunagitsune/kyoteibet/internal/pkg/extract"
	"github.com/sunagitsune/kyoteibet/internal/pkg/fetch"
	"github.com/sunagitsune/kyoteibet/internal/pkg/logging"
	"github.com/sunagitsune/kyoteibet/internal/pkg/notify"
	"github.com/sunagitsune/kyoteibet/internal/pkg/report"
	"github.com/sunagitsune/kyoteibet/internal/pkg/settle"
	"github.com/sunagitsune/kyoteibet/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	date       string
}

func main() {
	if err := run(); err != nil {
		slog.Error("Evening job failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", defaultConfigPath, "path to config file")
	flag.StringVar(&f.date, "date", "", "race date YYYYMMDD (defaults to today)")
	flag.Parse()
	return f
}

func run() error {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetupLogger(&cfg.Logging, "evening")

	loc, err := time.LoadLocation(cfg.Racer.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Racer.Timezone, err)
	}
	date := f.date
	if date == "" {
		date = time.Now().In(loc).Format("20060102")
	}

	sink, err := notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return fmt.Errorf("failed to create notification sink: %w", err)
	}

	ctx := context.Background()
	if err := evening(ctx, cfg, date, sink); err != nil {
		if sendErr := sink.Send(report.Error("evening", err)); sendErr != nil {
			slog.Error("failed to send error notification", "error", sendErr)
		}
		return err
	}
	return nil
}

func evening(ctx context.Context, cfg *config.Config, date string, sink notify.Sink) error {
	store, err := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer store.Close()

	rec, err := store.GetMorning(ctx, cfg.Racer.No, date)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("No morning record for today; nothing to settle", "date", date)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load morning record: %w", err)
	}

	client := fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.Delay, cfg.Fetch.UserAgent)
	markup, err := client.Page(ctx, fetch.ResultListURL(rec.VenueCode, date))
	if err != nil {
		return fmt.Errorf("failed to fetch result listing: %w", err)
	}

	results := extract.ParseResultList(markup)
	slog.Info("Results extracted", "venue", rec.VenueName, "races", len(results))

	settlement := settle.SettleDay(rec, results)
	if err := store.PutSettlement(ctx, settlement); err != nil {
		return fmt.Errorf("failed to persist settlement: %w", err)
	}

	cumulative, err := store.GetCumulative(ctx, cfg.Racer.No)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to load cumulative record: %w", err)
	}
	cumulative = settle.ApplyToCumulative(cumulative, settlement)
	if err := store.PutCumulative(ctx, cumulative); err != nil {
		return fmt.Errorf("failed to persist cumulative record: %w", err)
	}

	if cfg.Postgres.DSN != "" {
		ledger, err := storage.NewPostgresLedger(cfg.Postgres.DSN)
		if err != nil {
			slog.Error("ledger unavailable; outcomes not recorded", "error", err)
		} else {
			defer ledger.Close()
			if err := ledger.RecordOutcomes(ctx, cfg.Racer.No, date, settlement.Results); err != nil {
				slog.Error("failed to record outcomes in ledger", "error", err)
			}
		}
	}

	slog.Info("Day settled",
		"bet", settlement.TotalBet, "return", settlement.TotalReturn, "pnl", settlement.DailyPnL)
	return sink.Send(report.Evening(rec, settlement, cumulative))
}
