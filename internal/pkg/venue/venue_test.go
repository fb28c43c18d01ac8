package venue

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		title    string
		wantName string
		wantCode string
	}{
		{"下関競艇場 一般戦", "下関", "19"},
		{"G1 大村開設記念", "大村", "24"},
		{"住之江 ナイター", "住之江", "12"},
		{"唐津グランプリ", "唐津", "23"}, // must not resolve to 津
		{"津 一般戦", "津", "09"},
	}

	for _, tt := range tests {
		name, code, err := Resolve(tt.title)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", tt.title, err)
			continue
		}
		if name != tt.wantName || code != tt.wantCode {
			t.Errorf("Resolve(%q) = (%q, %q), want (%q, %q)",
				tt.title, name, code, tt.wantName, tt.wantCode)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	_, _, err := Resolve("オールスター競走")
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("Resolve() error = %v, want ErrUnresolved", err)
	}
}

func TestCode(t *testing.T) {
	if code, ok := Code("桐生"); !ok || code != "01" {
		t.Errorf("Code(桐生) = (%q, %v), want (01, true)", code, ok)
	}
	if _, ok := Code("不明な場"); ok {
		t.Error("Code() ok = true for an unknown name")
	}
}
