package extract

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// Markers the racer profile page is navigated by. The page reuses its
// generic container classes across sections (schedule, upcoming
// entries, F-rest), so the extractor keys off the first occurrence of
// each marker rather than off ids.
const (
	todayScheduleClass = "today_yotei"
	seriesPanelClass   = "player_kako_sub"
	racerTableClass    = "racer_table"
	seriesHeading      = "今節成績"
	noScheduleMarker   = "本日出走予定はありません"
)

// scheduleScan carries the per-document state of one profile-page pass.
// The regions are independent trackers advanced by the same token
// stream, not one combined state machine.
type scheduleScan struct {
	inH2, inH3 bool
	inTD, inTH bool

	today       regionTracker // first today-schedule div only
	inRaceTable bool

	sawSeriesHeading bool
	series           regionTracker // series panel, re-enterable
	seriesTables     int           // racer tables consumed inside series panels
	inSeriesSummary  bool
	inSeriesDetail   bool

	racerName  string
	racerNo    string
	title      strings.Builder
	hasRaces   bool
	noSchedule string

	headers    []string
	rows       [][]string
	pendingRow []string

	seriesHeaders []string
	seriesValues  []string
	detailRows    [][]string
	pendingDetail []string
}

// ParseSchedule extracts a racer's today-schedule and current-series
// tables from a profile page in a single pass. It never fails on
// malformed markup; missing fields come back as zero values.
func ParseSchedule(markup string) *models.RaceSchedule {
	s := &scheduleScan{
		today: regionTracker{oneShot: true},
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return s.finish()
		case html.StartTagToken:
			s.startTag(z.Token())
		case html.SelfClosingTagToken:
			s.selfClosingTag(z.Token())
		case html.EndTagToken:
			name, _ := z.TagName()
			s.endTag(string(name))
		case html.TextToken:
			s.text(string(z.Text()))
		}
	}
}

func (s *scheduleScan) startTag(t html.Token) {
	switch t.Data {
	case "input":
		s.hiddenInput(t)

	case "h2":
		s.inH2 = true
	case "h3":
		s.inH3 = true

	case "div":
		s.today.Enter(hasClass(t, todayScheduleClass))
		s.series.Enter(s.sawSeriesHeading && s.seriesTables < 2 && hasClass(t, seriesPanelClass))

	case "table":
		if s.today.Active() && hasClass(t, racerTableClass) {
			s.inRaceTable = true
			s.hasRaces = true
		}
		if s.series.Active() && hasClass(t, racerTableClass) {
			s.seriesTables++
			switch s.seriesTables {
			case 1:
				s.inSeriesSummary = true
			case 2:
				s.inSeriesDetail = true
			}
		}

	case "tr":
		if s.inRaceTable {
			s.pendingRow = nil
		}
		if s.inSeriesDetail {
			s.pendingDetail = nil
		}

	case "td":
		s.inTD = true
	case "th":
		s.inTH = true
	}
}

// Hidden inputs may appear anywhere in the document; both fields are
// optional and stay empty when absent.
func (s *scheduleScan) hiddenInput(t html.Token) {
	if attrVal(t, "type") != "hidden" {
		return
	}
	switch attrVal(t, "name") {
	case "player_name":
		s.racerName = attrVal(t, "value")
	case "player_no":
		s.racerNo = attrVal(t, "value")
	}
}

func (s *scheduleScan) selfClosingTag(t html.Token) {
	if t.Data == "input" {
		s.hiddenInput(t)
	}
}

func (s *scheduleScan) endTag(tag string) {
	switch tag {
	case "h2":
		s.inH2 = false
	case "h3":
		s.inH3 = false
	case "td":
		s.inTD = false
	case "th":
		s.inTH = false

	case "tr":
		if s.inRaceTable && len(s.pendingRow) > 0 {
			s.rows = append(s.rows, s.pendingRow)
			s.pendingRow = nil
		}
		if s.inSeriesDetail && len(s.pendingDetail) > 0 {
			s.detailRows = append(s.detailRows, s.pendingDetail)
			s.pendingDetail = nil
		}

	case "table":
		s.inRaceTable = false
		s.inSeriesSummary = false
		s.inSeriesDetail = false

	case "div":
		s.today.Leave()
		s.series.Leave()
	}
}

func (s *scheduleScan) text(raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}

	if s.inH2 && strings.Contains(text, seriesHeading) {
		s.sawSeriesHeading = true
	}

	// Event titles are split across inline markup; concatenate every h3
	// fragment seen while the today region is active.
	if s.inH3 && s.today.Active() {
		s.title.WriteString(text)
	}

	if s.today.Active() && strings.Contains(text, noScheduleMarker) {
		s.noSchedule = text
	}

	if s.inRaceTable {
		switch {
		case s.inTH:
			s.headers = append(s.headers, text)
		case s.inTD:
			s.pendingRow = append(s.pendingRow, text)
		}
	}

	if s.inSeriesSummary {
		switch {
		case s.inTH:
			s.seriesHeaders = append(s.seriesHeaders, text)
		case s.inTD:
			s.seriesValues = append(s.seriesValues, text)
		}
	}

	if s.inSeriesDetail && s.inTD {
		s.pendingDetail = append(s.pendingDetail, text)
	}
}

func (s *scheduleScan) finish() *models.RaceSchedule {
	sched := &models.RaceSchedule{
		RacerName:      s.racerName,
		RacerNo:        s.racerNo,
		EventTitle:     strings.TrimSpace(s.title.String()),
		HasRaces:       s.hasRaces,
		NoScheduleText: s.noSchedule,
		Headers:        s.headers,
		Series: models.SeriesSummary{
			Headers: s.seriesHeaders,
			Values:  s.seriesValues,
		},
	}

	for _, row := range s.rows {
		if len(row) < 3 {
			// Incomplete row: drop it rather than guess field positions.
			continue
		}
		r := models.RaceRow{RaceNo: row[0], Course: row[1], Deadline: row[2]}
		if len(row) > 3 {
			r.Result = row[3]
		}
		sched.Rows = append(sched.Rows, r)
	}

	for _, row := range s.detailRows {
		if len(row) < 5 {
			continue
		}
		sched.SeriesRaces = append(sched.SeriesRaces, models.SeriesRaceRow{
			DayLabel:    row[0],
			RaceNo:      row[1],
			Lane:        row[2],
			FinishRank:  row[3],
			StartTiming: row[4],
		})
	}

	// A no-races schedule carries no rows. Zero rows with the absence
	// marker is the normal off day; zero rows without it usually means
	// the site changed its markup, so make that case visible.
	if len(sched.Rows) == 0 {
		if s.hasRaces && s.noSchedule == "" {
			slog.Warn("schedule table present but no rows extracted; presuming no schedule",
				"racer_no", s.racerNo)
		}
		sched.HasRaces = false
	}

	return sched
}
