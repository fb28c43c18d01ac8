package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// TrifectaLabel marks the 3-lane exact-order bet type's payout block on
// a single-race result page.
const TrifectaLabel = "3連単"

// ParseRaceResult extracts the trifecta result from one race's result
// page. The page lists payout blocks for every bet type; only the block
// whose text mentions the trifecta label is eligible, and by site
// convention it appears at most once. The second return value is false
// when no complete trifecta block exists yet (result not published, or
// race void).
func ParseRaceResult(markup string, raceNo int) (models.RaceResult, bool) {
	var (
		block     resultBlock
		blockText strings.Builder
		inTbody   bool
		inLane    bool
		inPay     bool
	)

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return models.RaceResult{}, false

		case html.StartTagToken:
			t := z.Token()
			if t.Data == "tbody" {
				inTbody = true
				block.reset()
				block.raceNo = raceNo
				block.haveRaceNo = true
				blockText.Reset()
				continue
			}
			if !inTbody || t.Data != "span" {
				continue
			}
			if hasClass(t, laneNumberClass) {
				block.laneCount++
				inLane = block.laneCount <= 3
			}
			if hasClass(t, payoutClass) {
				block.payoutSeen++
				inPay = block.payoutSeen == 1
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "span":
				inLane = false
				inPay = false
			case "tbody":
				if inTbody && strings.Contains(blockText.String(), TrifectaLabel) && block.complete() {
					return block.record(), true
				}
				// A non-target block's markers must not bleed into the
				// trifecta result; drop whatever accumulated.
				inTbody = false
			}

		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text == "" || !inTbody {
				continue
			}
			blockText.WriteString(text)
			if inLane && isDigits(text) {
				block.lanes = append(block.lanes, text)
			}
			if inPay {
				block.setPayout(text)
			}
		}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
