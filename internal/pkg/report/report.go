// Package report renders the plain-text notification messages. Output
// is for a chat client: no markup, compact lines, yen amounts grouped
// by thousands.
package report

import (
	"fmt"
	"strings"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
	"github.com/sunagitsune/kyoteibet/internal/pkg/scheduler"
)

// Morning renders the prediction digest sent after a morning run.
func Morning(rec *models.MorningRecord) string {
	name := rec.RacerName
	if name == "" {
		name = "選手" + rec.RacerNo
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌅 %s（%s）本日の予想\n", name, rec.RacerNo)
	if rec.EventTitle != "" {
		fmt.Fprintf(&b, "📍 %s\n", rec.EventTitle)
	}
	fmt.Fprintf(&b, "💰 本日の予算: %s円\n\n", yen(rec.DailyBudget))

	for _, row := range rec.Rows {
		fmt.Fprintf(&b, "  %s ｜ %sコース ｜ %s\n", row.RaceNo, row.Course, row.Deadline)
	}

	b.WriteString("\n【AI予想（3連単）】\n")
	total := 0
	for _, pred := range rec.Predictions {
		fmt.Fprintf(&b, "\n▶ %dR %s\n", pred.RaceNo, pred.Analysis)
		for _, bet := range pred.Bets {
			fmt.Fprintf(&b, "  🎯 %s  %s円\n", bet.Combination, yen(bet.Amount))
			if bet.Reasoning != "" {
				fmt.Fprintf(&b, "     └ %s\n", bet.Reasoning)
			}
			total += bet.Amount
		}
	}

	fmt.Fprintf(&b, "\n📊 投資合計: %s円", yen(total))
	return b.String()
}

// NoSchedule renders the short off-day notice.
func NoSchedule(racerName, racerNo string) string {
	name := racerName
	if name == "" {
		name = "選手" + racerNo
	}
	return fmt.Sprintf("🌅 %s（%s）\n\n本日出走予定はありません。", name, racerNo)
}

// Evening renders the settlement digest sent after an evening run.
func Evening(rec *models.MorningRecord, s *models.DailySettlement, c *models.Cumulative) string {
	name := rec.RacerName
	if name == "" {
		name = "選手" + rec.RacerNo
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌙 %s（%s）本日の結果\n", name, rec.RacerNo)
	if rec.VenueName != "" {
		fmt.Fprintf(&b, "📍 %s\n", rec.VenueName)
	}
	b.WriteString("\n")

	currentRace := 0
	hits := 0
	for _, r := range s.Results {
		if r.RaceNo != currentRace {
			currentRace = r.RaceNo
			fmt.Fprintf(&b, "▶ %dR 結果: %s\n", r.RaceNo, r.ActualResult)
		}
		mark := "❌"
		if r.Hit {
			mark = "✅"
			hits++
		}
		fmt.Fprintf(&b, "  %s %s → %s円", mark, r.Combination, yen(r.BetAmount))
		if r.Hit {
			fmt.Fprintf(&b, " → 🎉 %s円", yen(r.ReturnAmount))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n📊 本日の収支\n")
	fmt.Fprintf(&b, "  投資: %s円\n", yen(s.TotalBet))
	fmt.Fprintf(&b, "  回収: %s円\n", yen(s.TotalReturn))
	fmt.Fprintf(&b, "  損益: %s%s円\n", sign(s.DailyPnL), yen(s.DailyPnL))
	fmt.Fprintf(&b, "  的中: %d/%d本\n", hits, len(s.Results))

	fmt.Fprintf(&b, "\n📈 累計収支（%d日間）\n", c.DaysCount)
	fmt.Fprintf(&b, "  投資: %s円\n", yen(c.TotalBet))
	fmt.Fprintf(&b, "  回収: %s円\n", yen(c.TotalReturn))
	fmt.Fprintf(&b, "  損益: %s%s円", sign(c.PnL), yen(c.PnL))
	if c.TotalBet > 0 {
		roi := float64(c.TotalReturn) / float64(c.TotalBet) * 100
		fmt.Fprintf(&b, "\n  回収率: %.1f%%", roi)
	}

	return b.String()
}

// PreRace renders the pre-deadline reminder for one race, with the
// stored bets and the just-before information text.
func PreRace(p scheduler.TriggerPayload, bets []models.BetPick, infoText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ まもなく締切: %s %dR（締切 %s）\n", p.VenueName, p.RaceNo, p.Deadline)
	fmt.Fprintf(&b, "🚤 %s %sコース\n", p.RacerName, p.Course)

	if len(bets) > 0 {
		b.WriteString("\n【予想の買い目】\n")
		for _, bet := range bets {
			fmt.Fprintf(&b, "  🎯 %s  %s円\n", bet.Combination, yen(bet.Amount))
		}
	}

	if infoText != "" {
		b.WriteString("\n【直前情報】\n")
		b.WriteString(infoText)
	}
	return b.String()
}

// PostRace renders the single-race settlement sent after a race.
func PostRace(p scheduler.TriggerPayload, results []models.SettledBet) string {
	var b strings.Builder

	if len(results) == 0 {
		fmt.Fprintf(&b, "🏁 %s %dR: 結果はまだ確定していません", p.VenueName, p.RaceNo)
		return b.String()
	}

	fmt.Fprintf(&b, "🏁 %s %dR 結果: %s\n", p.VenueName, p.RaceNo, results[0].ActualResult)
	for _, r := range results {
		mark := "❌"
		if r.Hit {
			mark = "✅"
		}
		fmt.Fprintf(&b, "  %s %s → %s円", mark, r.Combination, yen(r.BetAmount))
		if r.Hit {
			fmt.Fprintf(&b, " → 🎉 %s円", yen(r.ReturnAmount))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Error renders the clearly marked failure notice. The sink never
// receives partial structured data; a failed run reports this instead.
func Error(stage string, err error) string {
	return fmt.Sprintf("⚠️ エラー発生（%s）\n%v", stage, err)
}

// yen formats an amount with thousands separators. Negative amounts
// keep their sign out front, added by the caller via sign().
func yen(v int) string {
	if v < 0 {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func sign(v int) string {
	if v >= 0 {
		return "+"
	}
	return "-"
}
