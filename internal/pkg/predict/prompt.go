package predict

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the prediction prompt. The schedule, the racer's
// current-series form and the flattened entry-list pages are embedded
// verbatim; the JSON shape is restated in the prompt even though the
// response schema also enforces it.
func BuildPrompt(in Input) string {
	var schedule strings.Builder
	for _, row := range in.Rows {
		fmt.Fprintf(&schedule, "  %s: %sコース（締切 %s）\n", row.RaceNo, row.Course, row.Deadline)
	}

	var series strings.Builder
	for _, r := range in.SeriesRaces {
		fmt.Fprintf(&series, "  %s %s: %sコース %s着 ST%s\n",
			r.DayLabel, r.RaceNo, r.Lane, r.FinishRank, r.StartTiming)
	}
	if series.Len() == 0 {
		series.WriteString("  （今節の過去レースなし）\n")
	}

	return fmt.Sprintf(`あなたは競艇（ボートレース）の予想AIです。
以下の出走表データに基づいて、%sが出走する各レースについて3連単の予想と資金配分を行ってください。

【条件】
- 舟券の種類: 3連単のみ
- 1日の予算: %d円
- 各レースに対して3〜6点の買い目を推奨
- 予算は全レースの合計が%d円になるよう配分（100円単位）
- 自信度に応じて金額を傾斜配分する

【分析ポイント】
- 1号艇のイン逃げが基本（1コース1着率は全国平均55%%前後）
- スタートタイミング（ST）が早い選手は有利
- モーター2連率・展示タイムも判断材料
- %sの枠番・コースを特に注目

【%sの出走スケジュール】
会場: %s
日付: %s
%s
【今節成績】
%s
【出走表データ】
%s

以下のJSON形式で回答してください。JSON以外のテキストは含めないでください:
{
  "predictions": [
    {
      "race_no": レース番号(整数),
      "analysis": "簡潔な展開予想（50文字以内）",
      "bets": [
        {
          "combination": "X-Y-Z",
          "amount": 金額(整数、100円単位),
          "reasoning": "この買い目の根拠（30文字以内）"
        }
      ]
    }
  ]
}`,
		in.RacerName, in.DailyBudget, in.DailyBudget,
		in.RacerName, in.RacerName, in.VenueName, in.Date,
		schedule.String(), series.String(),
		strings.Join(in.RaceListTexts, "\n\n"))
}
