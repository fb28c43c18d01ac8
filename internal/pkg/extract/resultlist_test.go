package extract

import "testing"

const resultListPage = `
<table>
<tbody>
  <tr><td><a href="/owpc/pc/race/raceresult?rno=1&jcd=19&hd=20260827">1R</a></td>
  <td><span class="numberSet1 numberSet1_number">1</span>
      <span class="numberSet1 numberSet1_number">3</span>
      <span class="numberSet1 numberSet1_number">5</span></td>
  <td><span class="is-payout1">¥3,450</span><span class="is-payout1">¥890</span></td></tr>
</tbody>
<tbody>
  <tr><td><a href="/owpc/pc/race/raceresult?rno=2&jcd=19&hd=20260827">2R</a></td>
  <td><span class="is-payout1">¥1,200</span></td></tr>
</tbody>
<tbody>
  <tr><td><a href="/owpc/pc/race/raceresult?rno=3&jcd=19&hd=20260827">3R</a></td>
  <td><span class="numberSet1_number">2</span>
      <span class="numberSet1_number">2</span>
      <span class="numberSet1_number">4</span></td>
  <td><span class="is-payout1">¥2,000</span></td></tr>
</tbody>
<tbody>
  <tr><td><a href="/owpc/pc/race/raceresult?rno=4&jcd=19&hd=20260827">4R</a></td>
  <td><span class="numberSet1_number">4</span>
      <span class="numberSet1_number">1</span>
      <span class="numberSet1_number">2</span></td>
  <td><span class="is-payout1">-</span></td></tr>
</tbody>
<tbody>
  <tr><td><a href="/owpc/pc/race/raceresult?rno=6&jcd=19&hd=20260827">6R</a></td>
  <td><span class="numberSet1_number">6</span>
      <span class="numberSet1_number">2</span>
      <span class="numberSet1_number">1</span></td>
  <td><span class="is-payout1">¥12,340</span></td></tr>
</tbody>
</table>`

func TestParseResultList(t *testing.T) {
	results := ParseResultList(resultListPage)

	// 2R lacks lane markers, 3R repeats a lane, 4R has no numeric
	// payout: all three must be dropped whole.
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2: %+v", len(results), results)
	}

	if results[0].RaceNo != 1 || results[0].Trifecta != "1-3-5" || results[0].Payout != 3450 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].RaceNo != 6 || results[1].Trifecta != "6-2-1" || results[1].Payout != 12340 {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestParseResultListUsesFirstPayoutOnly(t *testing.T) {
	results := ParseResultList(resultListPage)
	if len(results) == 0 {
		t.Fatal("no results")
	}
	// The second payout span in 1R's block (¥890, the next bet type)
	// must not overwrite the trifecta payout.
	if results[0].Payout != 3450 {
		t.Errorf("Payout = %d, want 3450", results[0].Payout)
	}
}

func TestParseResultListEmpty(t *testing.T) {
	if results := ParseResultList("<html><body></body></html>"); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
