package predict

import (
	"strings"
	"testing"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			text: `{"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "fenced with prose",
			text: "Here you go:\n```json\n{\"predictions\": []}\n```\nGood luck!",
			want: `{"predictions": []}`,
			ok:   true,
		},
		{
			name: "braces inside strings",
			text: `{"analysis": "展開は {荒れ} 模様", "bets": [{"combination": "1-2-3"}]}`,
			want: `{"analysis": "展開は {荒れ} 模様", "bets": [{"combination": "1-2-3"}]}`,
			ok:   true,
		},
		{
			name: "escaped quote inside string",
			text: `{"a": "say \"}\" here"}`,
			want: `{"a": "say \"}\" here"}`,
			ok:   true,
		},
		{
			name: "no object",
			text: "sorry, I cannot help with that",
			ok:   false,
		},
		{
			name: "unbalanced",
			text: `{"a": 1`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstJSONObject(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodePredictions(t *testing.T) {
	raw := `{"predictions": [{"race_no": 5, "analysis": "イン逃げ有力",
		"bets": [{"combination": "1-2-3", "amount": 500, "reasoning": "堅実"}]}]}`

	set, err := decodePredictions(raw)
	if err != nil {
		t.Fatalf("decodePredictions() error: %v", err)
	}
	if len(set.Predictions) != 1 || set.Predictions[0].RaceNo != 5 {
		t.Fatalf("set = %+v", set)
	}
	if set.TotalStake() != 500 {
		t.Errorf("TotalStake() = %d, want 500", set.TotalStake())
	}
}

func TestDecodePredictionsRecoversFromProse(t *testing.T) {
	raw := "以下が予想です。\n```json\n" +
		`{"predictions": [{"race_no": 1, "bets": [{"combination": "1-3-5", "amount": 300}]}]}` +
		"\n```"

	set, err := decodePredictions(raw)
	if err != nil {
		t.Fatalf("decodePredictions() error: %v", err)
	}
	if len(set.Predictions) != 1 {
		t.Fatalf("set = %+v", set)
	}
}

func TestDecodePredictionsRejectsGarbage(t *testing.T) {
	if _, err := decodePredictions("no json here"); err == nil {
		t.Error("decodePredictions() error = nil, want failure")
	}
}

func TestBuildPromptMentionsEveryRace(t *testing.T) {
	in := Input{
		RacerName:   "山田太郎",
		VenueName:   "下関",
		Date:        "20260827",
		DailyBudget: 5000,
		Rows: []models.RaceRow{
			{RaceNo: "1R", Course: "4", Deadline: "10:45"},
			{RaceNo: "5R", Course: "2", Deadline: "13:12"},
		},
	}

	prompt := BuildPrompt(in)
	for _, label := range []string{"1R", "5R", "山田太郎", "下関"} {
		if !strings.Contains(prompt, label) {
			t.Errorf("prompt does not mention %s", label)
		}
	}
	if !strings.Contains(prompt, "5000円") {
		t.Error("prompt does not mention the daily budget")
	}
}
