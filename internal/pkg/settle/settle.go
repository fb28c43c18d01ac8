// Package settle matches predictions against race results and keeps
// the daily and cumulative betting balance. Amounts are integer yen
// throughout; payouts are quoted per 100 yen staked.
package settle

import (
	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// UnknownResult marks bets whose race produced no extractable result.
const UnknownResult = "不明"

// SettleBet matches one bet against one race's result. A nil result
// means the outcome is unknown; the bet counts as staked but missed.
func SettleBet(raceNo int, bet models.BetPick, result *models.RaceResult) models.SettledBet {
	settled := models.SettledBet{
		RaceNo:       raceNo,
		Combination:  bet.Combination,
		BetAmount:    bet.Amount,
		ActualResult: UnknownResult,
	}
	if result == nil {
		return settled
	}

	settled.ActualResult = result.Trifecta
	settled.PayoutPer100 = result.Payout
	if bet.Combination == result.Trifecta {
		settled.Hit = true
		settled.ReturnAmount = (bet.Amount / 100) * result.Payout
	}
	return settled
}

// SettleDay matches every predicted bet against the day's results and
// totals the balance. Result order follows prediction order.
func SettleDay(rec *models.MorningRecord, results []models.RaceResult) *models.DailySettlement {
	resultByRace := make(map[int]models.RaceResult, len(results))
	for _, r := range results {
		resultByRace[r.RaceNo] = r
	}

	settlement := &models.DailySettlement{
		RacerNo: rec.RacerNo,
		Date:    rec.Date,
	}

	for _, pred := range rec.Predictions {
		var result *models.RaceResult
		if r, ok := resultByRace[pred.RaceNo]; ok {
			result = &r
		}
		for _, bet := range pred.Bets {
			settled := SettleBet(pred.RaceNo, bet, result)
			settlement.Results = append(settlement.Results, settled)
			settlement.TotalBet += settled.BetAmount
			settlement.TotalReturn += settled.ReturnAmount
		}
	}

	settlement.DailyPnL = settlement.TotalReturn - settlement.TotalBet
	return settlement
}

// ApplyToCumulative folds a daily settlement into the running balance.
// The cumulative record is created on first use.
func ApplyToCumulative(c *models.Cumulative, s *models.DailySettlement) *models.Cumulative {
	if c == nil {
		c = &models.Cumulative{RacerNo: s.RacerNo}
	}
	c.TotalBet += s.TotalBet
	c.TotalReturn += s.TotalReturn
	c.PnL += s.DailyPnL
	c.DaysCount++
	c.LastUpdated = s.Date
	return c
}
