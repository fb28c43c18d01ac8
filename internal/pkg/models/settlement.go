package models

// SettledBet is one bet matched against the actual race outcome.
type SettledBet struct {
	RaceNo       int    `json:"race_no"`
	Combination  string `json:"combination"`
	BetAmount    int    `json:"bet_amount"`
	ActualResult string `json:"actual_result"` // winning trifecta, or "不明" when missing
	PayoutPer100 int    `json:"payout_per_100"`
	Hit          bool   `json:"hit"`
	ReturnAmount int    `json:"return_amount"`
}

// DailySettlement is the persisted output of an evening run, keyed by
// (racer_no, "{date}#settlement").
type DailySettlement struct {
	RacerNo     string       `json:"racer_no"`
	Date        string       `json:"date"`
	Results     []SettledBet `json:"results"`
	TotalBet    int          `json:"total_bet"`
	TotalReturn int          `json:"total_return"`
	DailyPnL    int          `json:"daily_pnl"`
}

// Cumulative tracks the running betting balance across days, keyed by
// (racer_no, "cumulative").
type Cumulative struct {
	RacerNo     string `json:"racer_no"`
	TotalBet    int    `json:"total_bet"`
	TotalReturn int    `json:"total_return"`
	PnL         int    `json:"cumulative_pnl"`
	DaysCount   int    `json:"days_count"`
	LastUpdated string `json:"last_updated"` // YYYYMMDD
}
