// Package scheduler turns the day's race deadlines into one-shot
// triggers: a reminder shortly before each wager deadline and a
// settlement pass once the race has finished.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// Trigger phases. Pre fires before the wager deadline, post after the
// race should have finished.
const (
	PhasePre  = "pre"
	PhasePost = "post"

	DefaultPreOffset  = -10 * time.Minute
	DefaultPostOffset = 20 * time.Minute
)

var (
	deadlineRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	digitsRe   = regexp.MustCompile(`\d+`)
)

// TriggerPayload carries everything a fired handler needs to re-derive
// its context without reading any in-process state. Handlers must be
// idempotent against refires: all lookups go through the payload and
// the store.
type TriggerPayload struct {
	Phase      string `json:"phase"`
	RacerNo    string `json:"racer_no"`
	RacerName  string `json:"racer_name"`
	Date       string `json:"date"` // YYYYMMDD
	RaceNo     int    `json:"race_no"`
	VenueName  string `json:"venue_name"`
	VenueCode  string `json:"venue_code"`
	Course     string `json:"course"`
	Deadline   string `json:"deadline"` // HH:MM
	RaceIndex  int    `json:"race_index"`
	TotalRaces int    `json:"total_races"`
}

// TriggerService is the external one-shot timer collaborator. An upsert
// with an existing name updates that trigger in place; triggers delete
// themselves after firing.
type TriggerService interface {
	UpsertOneShot(ctx context.Context, name string, fireAt time.Time, payloadJSON string) error
}

// RaceScheduler computes per-race fire times and registers triggers.
type RaceScheduler struct {
	svc        TriggerService
	namePrefix string
	preOffset  time.Duration
	postOffset time.Duration
	loc        *time.Location
}

// New builds a scheduler. Zero offsets take the defaults; loc is the
// timezone deadlines are printed in (JST for both source sites).
func New(svc TriggerService, namePrefix string, preOffset, postOffset time.Duration, loc *time.Location) *RaceScheduler {
	if preOffset == 0 {
		preOffset = DefaultPreOffset
	}
	if postOffset == 0 {
		postOffset = DefaultPostOffset
	}
	if namePrefix == "" {
		namePrefix = "kyoteibet"
	}
	return &RaceScheduler{
		svc:        svc,
		namePrefix: namePrefix,
		preOffset:  preOffset,
		postOffset: postOffset,
		loc:        loc,
	}
}

// ScheduleDay registers the pre and post triggers for every race in the
// morning record. Targets already in the past relative to now are
// skipped with a warning; a race whose deadline text does not parse is
// skipped whole; the batch always continues. Calls to the trigger
// service are deliberately serialized to stay under burst limits.
func (s *RaceScheduler) ScheduleDay(ctx context.Context, now time.Time, rec *models.MorningRecord) error {
	var firstErr error

	for i, row := range rec.Rows {
		deadline, ok := s.parseDeadline(rec.Date, row.Deadline)
		if !ok {
			slog.Warn("unparseable deadline; skipping race triggers",
				"race", row.RaceNo, "deadline_text", row.Deadline)
			continue
		}

		raceNo, ok := raceNumber(row.RaceNo)
		if !ok {
			slog.Warn("unparseable race number; skipping race triggers", "race", row.RaceNo)
			continue
		}

		payload := TriggerPayload{
			RacerNo:    rec.RacerNo,
			RacerName:  rec.RacerName,
			Date:       rec.Date,
			RaceNo:     raceNo,
			VenueName:  rec.VenueName,
			VenueCode:  rec.VenueCode,
			Course:     row.Course,
			Deadline:   row.Deadline,
			RaceIndex:  i,
			TotalRaces: len(rec.Rows),
		}

		for _, phase := range []struct {
			name   string
			fireAt time.Time
		}{
			{PhasePre, deadline.Add(s.preOffset)},
			{PhasePost, deadline.Add(s.postOffset)},
		} {
			if !phase.fireAt.After(now) {
				slog.Warn("trigger target already past; skipping",
					"race", raceNo, "phase", phase.name, "fire_at", phase.fireAt)
				continue
			}

			payload.Phase = phase.name
			data, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("failed to marshal trigger payload: %w", err)
			}

			name := s.triggerName(rec.Date, raceNo, phase.name)
			if err := s.svc.UpsertOneShot(ctx, name, phase.fireAt, string(data)); err != nil {
				slog.Error("failed to upsert trigger", "name", name, "error", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to upsert trigger %s: %w", name, err)
				}
			}
		}
	}

	return firstErr
}

// triggerName is deterministic per (date, race, phase) so re-running a
// morning upserts rather than duplicates.
func (s *RaceScheduler) triggerName(date string, raceNo int, phase string) string {
	return fmt.Sprintf("%s-%s-%d-%s", s.namePrefix, date, raceNo, phase)
}

// parseDeadline anchors the page's HH:MM text to the given date in the
// scheduler's timezone.
func (s *RaceScheduler) parseDeadline(date, text string) (time.Time, bool) {
	m := deadlineRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if hour > 23 || min > 59 {
		return time.Time{}, false
	}

	day, err := time.ParseInLocation("20060102", date, s.loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, s.loc), true
}

// raceNumber pulls the number out of the page's "1R" style label.
func raceNumber(label string) (int, bool) {
	m := digitsRe.FindString(label)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
