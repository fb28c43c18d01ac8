package extract

import (
	"testing"
)

const schedulePage = `
<html><body>
<input type="hidden" name="player_name" value="山田太郎">
<input type="hidden" name="player_no" value="4320">

<div class="player_kako_sub">
  <table class="racer_table"><tr><td>前節</td><td>データ</td></tr></table>
</div>

<div class="today_yotei">
  <h3>下関競艇場</h3><h3>一般戦</h3>
  <table class="racer_table is-wide">
    <tr><th>レース</th><th>コース</th><th>締切</th></tr>
    <tr><td>1R</td><td>4</td><td>10:45</td></tr>
    <tr><td>5R</td><td>2</td><td>13:12</td><td>3着</td></tr>
  </table>
</div>

<div class="today_yotei">
  <table class="racer_table">
    <tr><td>9R</td><td>1</td><td>15:00</td></tr>
  </table>
</div>

<h2>今節成績</h2>
<div class="player_kako_sub">
  <table class="racer_table">
    <tr><th>勝率</th><th>2連率</th></tr>
    <tr><td>6.50</td><td>45.0</td></tr>
  </table>
</div>
<div class="player_kako_sub">
  <table class="racer_table">
    <tr><td>初日</td><td>1R</td><td>4</td><td>3</td><td>.15</td></tr>
    <tr><td>2日目</td><td>5R</td><td>2</td><td>1</td><td>.12</td></tr>
  </table>
</div>
</body></html>`

func TestParseSchedule(t *testing.T) {
	sched := ParseSchedule(schedulePage)

	if sched.RacerName != "山田太郎" {
		t.Errorf("RacerName = %q, want 山田太郎", sched.RacerName)
	}
	if sched.RacerNo != "4320" {
		t.Errorf("RacerNo = %q, want 4320", sched.RacerNo)
	}
	if sched.EventTitle != "下関競艇場一般戦" {
		t.Errorf("EventTitle = %q", sched.EventTitle)
	}
	if !sched.HasRaces {
		t.Fatal("HasRaces = false, want true")
	}

	if len(sched.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2 (second today container must be ignored)", len(sched.Rows))
	}
	if sched.Rows[0].RaceNo != "1R" || sched.Rows[0].Course != "4" || sched.Rows[0].Deadline != "10:45" {
		t.Errorf("Rows[0] = %+v", sched.Rows[0])
	}
	if sched.Rows[1].Result != "3着" {
		t.Errorf("Rows[1].Result = %q, want 3着", sched.Rows[1].Result)
	}
	if len(sched.Headers) != 3 {
		t.Errorf("len(Headers) = %d, want 3", len(sched.Headers))
	}
}

func TestParseScheduleSeries(t *testing.T) {
	sched := ParseSchedule(schedulePage)

	if len(sched.Series.Headers) != 2 || len(sched.Series.Values) != 2 {
		t.Fatalf("Series = %+v, want 2 headers and 2 values", sched.Series)
	}
	if sched.Series.Headers[0] != "勝率" || sched.Series.Values[0] != "6.50" {
		t.Errorf("Series = %+v", sched.Series)
	}

	if len(sched.SeriesRaces) != 2 {
		t.Fatalf("len(SeriesRaces) = %d, want 2 (panel before the heading must be ignored)", len(sched.SeriesRaces))
	}
	first := sched.SeriesRaces[0]
	if first.DayLabel != "初日" || first.RaceNo != "1R" || first.Lane != "4" ||
		first.FinishRank != "3" || first.StartTiming != ".15" {
		t.Errorf("SeriesRaces[0] = %+v", first)
	}
}

func TestParseScheduleNoRaces(t *testing.T) {
	markup := `<div class="today_yotei"><p>本日出走予定はありません</p></div>`

	sched := ParseSchedule(markup)
	if sched.HasRaces {
		t.Error("HasRaces = true, want false")
	}
	if sched.NoScheduleText == "" {
		t.Error("NoScheduleText is empty, want the absence marker text")
	}
	if len(sched.Rows) != 0 {
		t.Errorf("len(Rows) = %d, want 0", len(sched.Rows))
	}
}

func TestParseScheduleTableWithoutRows(t *testing.T) {
	// A schedule table that yields no usable rows must come back as a
	// no-race day, not as a schedule with phantom races.
	markup := `<div class="today_yotei"><table class="racer_table">
		<tr><th>レース</th></tr><tr><td>1R</td><td>4</td></tr>
	</table></div>`

	sched := ParseSchedule(markup)
	if sched.HasRaces {
		t.Error("HasRaces = true, want false for a rowless table")
	}
}

func TestParseScheduleEmptyDocument(t *testing.T) {
	sched := ParseSchedule("")
	if sched.HasRaces || len(sched.Rows) != 0 {
		t.Errorf("empty document: %+v", sched)
	}
}
