package models

// BetPick is a single recommended trifecta bet within a race prediction.
type BetPick struct {
	Combination string `json:"combination"` // "X-Y-Z"
	Amount      int    `json:"amount"`      // yen, multiples of 100
	Reasoning   string `json:"reasoning,omitempty"`
}

// RacePrediction is the model's prediction for one race.
type RacePrediction struct {
	RaceNo   int       `json:"race_no"`
	Analysis string    `json:"analysis"`
	Bets     []BetPick `json:"bets"`
}

// PredictionSet is the full model response for a day.
type PredictionSet struct {
	Predictions []RacePrediction `json:"predictions"`
}

// TotalStake sums every bet amount across all races.
func (p PredictionSet) TotalStake() int {
	total := 0
	for _, pred := range p.Predictions {
		for _, bet := range pred.Bets {
			total += bet.Amount
		}
	}
	return total
}

// MorningRecord is the persisted output of a morning run, keyed by
// (racer_no, "{date}#schedule") in the store.
type MorningRecord struct {
	RacerNo     string           `json:"racer_no"`
	Date        string           `json:"date"` // YYYYMMDD
	RacerName   string           `json:"racer_name"`
	VenueName   string           `json:"venue_name"`
	VenueCode   string           `json:"venue_code"`
	EventTitle  string           `json:"event_title"`
	DailyBudget int              `json:"daily_budget"`
	Rows        []RaceRow        `json:"rows"`
	Predictions []RacePrediction `json:"predictions"`
}
