package models

// RaceRow is one scheduled race of the day, in race-sequence order.
type RaceRow struct {
	RaceNo   string `json:"race_no"`  // as printed on the page, e.g. "1R"
	Course   string `json:"course"`   // lane/course number the racer starts from
	Deadline string `json:"deadline"` // wager deadline text, HH:MM
	Result   string `json:"result,omitempty"`
}

// SeriesSummary holds the current-series summary table as parallel
// header/value lists, exactly as laid out on the page.
type SeriesSummary struct {
	Headers []string `json:"headers"`
	Values  []string `json:"values"`
}

// SeriesRaceRow is one past race of the current competition series.
type SeriesRaceRow struct {
	DayLabel    string `json:"day_label"`
	RaceNo      string `json:"race_no"`
	Lane        string `json:"lane"`
	FinishRank  string `json:"finish_rank"`
	StartTiming string `json:"start_timing"`
}

// RaceSchedule is everything extracted from a racer's profile page in a
// single pass. Row order matches document order and is never re-sorted.
type RaceSchedule struct {
	RacerName      string          `json:"racer_name"`
	RacerNo        string          `json:"racer_no"`
	EventTitle     string          `json:"event_title"`
	HasRaces       bool            `json:"has_races"`
	NoScheduleText string          `json:"no_schedule_text,omitempty"`
	Headers        []string        `json:"headers,omitempty"`
	Rows           []RaceRow       `json:"rows,omitempty"`
	Series         SeriesSummary   `json:"series"`
	SeriesRaces    []SeriesRaceRow `json:"series_races,omitempty"`
}

// RaceResult is the settled outcome of one race: the winning trifecta
// combination and its payout per 100 yen stake.
type RaceResult struct {
	RaceNo   int    `json:"race_no"`
	Trifecta string `json:"trifecta"` // "1-3-5"
	Payout   int    `json:"payout"`   // yen per 100 yen stake
}
