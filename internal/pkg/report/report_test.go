package report

import (
	"strings"
	"testing"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

func TestYen(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{500, "500"},
		{1000, "1,000"},
		{17250, "17,250"},
		{1234567, "1,234,567"},
		{-16250, "16,250"}, // sign is rendered separately
	}
	for _, tt := range tests {
		if got := yen(tt.in); got != tt.want {
			t.Errorf("yen(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEveningMessage(t *testing.T) {
	rec := &models.MorningRecord{
		RacerNo:   "4320",
		RacerName: "山田太郎",
		VenueName: "下関",
		Date:      "20260827",
	}
	s := &models.DailySettlement{
		RacerNo: "4320",
		Date:    "20260827",
		Results: []models.SettledBet{
			{RaceNo: 1, Combination: "1-3-5", BetAmount: 500, ActualResult: "1-3-5",
				PayoutPer100: 3450, Hit: true, ReturnAmount: 17250},
			{RaceNo: 1, Combination: "1-5-3", BetAmount: 200, ActualResult: "1-3-5"},
		},
		TotalBet:    700,
		TotalReturn: 17250,
		DailyPnL:    16550,
	}
	c := &models.Cumulative{
		RacerNo: "4320", TotalBet: 2000, TotalReturn: 17250,
		PnL: 15250, DaysCount: 2, LastUpdated: "20260827",
	}

	msg := Evening(rec, s, c)

	for _, want := range []string{
		"山田太郎", "1-3-5", "✅", "❌",
		"的中: 1/2本", "+16,550円", "回収率: 862.5%",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestMorningMessage(t *testing.T) {
	rec := &models.MorningRecord{
		RacerNo:     "4320",
		RacerName:   "山田太郎",
		EventTitle:  "下関 一般戦",
		DailyBudget: 5000,
		Rows: []models.RaceRow{
			{RaceNo: "1R", Course: "4", Deadline: "10:45"},
		},
		Predictions: []models.RacePrediction{
			{RaceNo: 1, Analysis: "イン逃げ有力", Bets: []models.BetPick{
				{Combination: "1-2-3", Amount: 500, Reasoning: "堅実"},
				{Combination: "1-3-2", Amount: 300},
			}},
		},
	}

	msg := Morning(rec)
	for _, want := range []string{"山田太郎", "10:45", "1-2-3", "投資合計: 800円"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNoScheduleFallsBackToRacerNo(t *testing.T) {
	msg := NoSchedule("", "4320")
	if !strings.Contains(msg, "選手4320") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "本日出走予定はありません") {
		t.Errorf("message = %q", msg)
	}
}
