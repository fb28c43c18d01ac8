// Morning job: extract today's schedule for the tracked racer, generate
// trifecta predictions, persist the record, register per-race triggers
// and send the digest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sunagitsune/kyoteibet/internal/pkg/config"
	"github.com/sunagitsune/kyoteibet/internal/pkg/extract"
	"github.com/sunagitsune/kyoteibet/internal/pkg/fetch"
	"github.com/sunagitsune/kyoteibet/internal/pkg/logging"
	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
	"github.com/sunagitsune/kyoteibet/internal/pkg/notify"
	"github.com/sunagitsune/kyoteibet/internal/pkg/predict"
	"github.com/sunagitsune/kyoteibet/internal/pkg/report"
	"github.com/sunagitsune/kyoteibet/internal/pkg/scheduler"
	"github.com/sunagitsune/kyoteibet/internal/pkg/storage"
	"github.com/sunagitsune/kyoteibet/internal/pkg/venue"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	date       string // YYYYMMDD override, defaults to today
}

func main() {
	if err := run(); err != nil {
		slog.Error("Morning job failed", "error", err)
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
	logging.SetupLogger(&cfg.Logging, "morning")

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
	if err := morning(ctx, cfg, loc, date, sink); err != nil {
		// The failure notice is best effort; the run's own error wins.
		if sendErr := sink.Send(report.Error("morning", err)); sendErr != nil {
			slog.Error("failed to send error notification", "error", sendErr)
		}
		return err
	}
	return nil
}

func morning(ctx context.Context, cfg *config.Config, loc *time.Location, date string, sink notify.Sink) error {
	client := fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.Delay, cfg.Fetch.UserAgent)

	slog.Info("Fetching racer page", "racer_no", cfg.Racer.No, "date", date)
	markup, err := client.Page(ctx, fetch.RacerPageURL(cfg.Racer.No))
	if err != nil {
		return fmt.Errorf("failed to fetch racer page: %w", err)
	}

	sched := extract.ParseSchedule(markup)
	sched.RacerNo = cfg.Racer.No

	if !sched.HasRaces {
		slog.Info("No races scheduled today", "racer_no", cfg.Racer.No)
		return sink.Send(report.NoSchedule(sched.RacerName, cfg.Racer.No))
	}

	venueName, venueCode, err := venue.Resolve(sched.EventTitle)
	if err != nil {
		return fmt.Errorf("failed to resolve venue from %q: %w", sched.EventTitle, err)
	}
	slog.Info("Schedule extracted",
		"racer_name", sched.RacerName, "venue", venueName, "races", len(sched.Rows))

	raceListTexts := fetchRaceLists(ctx, client, sched.Rows, venueCode, date)

	predictor, err := predict.NewPredictor(ctx, cfg.Prediction.APIKey, cfg.Prediction.ModelName)
	if err != nil {
		return fmt.Errorf("failed to create predictor: %w", err)
	}
	set, err := predictor.Predict(ctx, predict.Input{
		RacerName:     sched.RacerName,
		VenueName:     venueName,
		Date:          date,
		DailyBudget:   cfg.Racer.DailyBudget,
		Rows:          sched.Rows,
		SeriesRaces:   sched.SeriesRaces,
		RaceListTexts: raceListTexts,
	})
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	slog.Info("Predictions generated", "races", len(set.Predictions), "total_stake", set.TotalStake())

	rec := &models.MorningRecord{
		RacerNo:     cfg.Racer.No,
		Date:        date,
		RacerName:   sched.RacerName,
		VenueName:   venueName,
		VenueCode:   venueCode,
		EventTitle:  sched.EventTitle,
		DailyBudget: cfg.Racer.DailyBudget,
		Rows:        sched.Rows,
		Predictions: set.Predictions,
	}

	store, err := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer store.Close()

	if err := store.PutMorning(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist morning record: %w", err)
	}

	if err := scheduleTriggers(ctx, cfg, loc, rec); err != nil {
		return err
	}

	return sink.Send(report.Morning(rec))
}

// fetchRaceLists pulls the entry-list page for each scheduled race. A
// race whose page fails stays in the prompt as an empty slot; the
// prediction proceeds on what was retrieved.
func fetchRaceLists(ctx context.Context, client *fetch.Client, rows []models.RaceRow, venueCode, date string) []string {
	texts := make([]string, len(rows))
	for i, row := range rows {
		rno, ok := raceDigits(row.RaceNo)
		if !ok {
			slog.Warn("unparseable race number; skipping entry list", "race", row.RaceNo)
			continue
		}
		text, err := client.PageText(ctx, fetch.RaceListURL(rno, venueCode, date))
		if err != nil {
			slog.Warn("failed to fetch entry list", "race", row.RaceNo, "error", err)
			continue
		}
		texts[i] = text
	}
	return texts
}

func raceDigits(label string) (string, bool) {
	var digits []rune
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return "", false
	}
	return string(digits), true
}

// scheduleTriggers registers the pre/post one-shot triggers. Trigger
// setup is skipped entirely when no target is configured; a partial
// failure is logged but does not abort the digest.
func scheduleTriggers(ctx context.Context, cfg *config.Config, loc *time.Location, rec *models.MorningRecord) error {
	if cfg.Scheduler.TargetArn == "" {
		slog.Info("No trigger target configured; skipping race triggers")
		return nil
	}

	svc, err := scheduler.NewEventBridgeTriggers(ctx,
		cfg.Scheduler.GroupName, cfg.Scheduler.TargetArn, cfg.Scheduler.RoleArn)
	if err != nil {
		return fmt.Errorf("failed to create trigger service: %w", err)
	}

	sched := scheduler.New(svc, cfg.Scheduler.NamePrefix,
		cfg.Scheduler.PreOffset, cfg.Scheduler.PostOffset, loc)
	if err := sched.ScheduleDay(ctx, time.Now().In(loc), rec); err != nil {
		slog.Error("some race triggers failed", "error", err)
	}
	return nil
}
