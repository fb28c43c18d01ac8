package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// Markers on the result pages. Each tbody is one race's block; the race
// number is carried in a link's rno query parameter, the winning lanes
// in numberSet spans and the trifecta payout in the first payout span
// (the trifecta is always listed first among the bet types).
const (
	laneNumberClass = "numberSet1_number"
	payoutClass     = "is-payout1"
)

var (
	rnoRe       = regexp.MustCompile(`rno=(\d+)`)
	payoutJunk  = regexp.MustCompile(`[¥￥\\,\s]`)
	trifectaSep = "-"
)

// resultBlock accumulates one tbody's worth of markers.
type resultBlock struct {
	raceNo     int
	haveRaceNo bool
	lanes      []string
	laneCount  int
	payout     int
	havePayout bool
	payoutSeen int
}

func (b *resultBlock) reset() { *b = resultBlock{} }

// complete reports whether the block resolved every field: a race
// number, exactly three distinct lanes and one payout. Anything less is
// worse than nothing for the settlement logic downstream.
func (b *resultBlock) complete() bool {
	if !b.haveRaceNo || !b.havePayout || len(b.lanes) != 3 {
		return false
	}
	return b.lanes[0] != b.lanes[1] && b.lanes[0] != b.lanes[2] && b.lanes[1] != b.lanes[2]
}

func (b *resultBlock) record() models.RaceResult {
	return models.RaceResult{
		RaceNo:   b.raceNo,
		Trifecta: strings.Join(b.lanes, trifectaSep),
		Payout:   b.payout,
	}
}

// setPayout normalizes payout text (currency symbols, thousands
// separators, whitespace) into integer yen. Non-numeric remainders such
// as "-" for a race without a result are silently skipped.
func (b *resultBlock) setPayout(text string) {
	clean := payoutJunk.ReplaceAllString(text, "")
	if clean == "" {
		return
	}
	if v, err := strconv.Atoi(clean); err == nil {
		b.payout = v
		b.havePayout = true
	}
}

// ParseResultList extracts every race's winning trifecta and payout
// from a multi-race results listing page, in document order. Blocks
// missing any field are dropped whole.
func ParseResultList(markup string) []models.RaceResult {
	var (
		results []models.RaceResult
		block   resultBlock
		inTbody bool
		inLane  bool
		inPay   bool
	)

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return results

		case html.StartTagToken:
			t := z.Token()
			if t.Data == "tbody" {
				inTbody = true
				block.reset()
				continue
			}
			if !inTbody {
				continue
			}
			switch t.Data {
			case "a":
				if m := rnoRe.FindStringSubmatch(attrVal(t, "href")); m != nil && !block.haveRaceNo {
					if n, err := strconv.Atoi(m[1]); err == nil {
						block.raceNo = n
						block.haveRaceNo = true
					}
				}
			case "span":
				if hasClass(t, laneNumberClass) {
					block.laneCount++
					inLane = block.laneCount <= 3
				}
				if hasClass(t, payoutClass) {
					block.payoutSeen++
					inPay = block.payoutSeen == 1
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "span":
				inLane = false
				inPay = false
			case "tbody":
				if inTbody && block.complete() {
					results = append(results, block.record())
				}
				inTbody = false
			}

		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if inLane {
				block.lanes = append(block.lanes, text)
			}
			if inPay {
				block.setPayout(text)
			}
		}
	}
}
