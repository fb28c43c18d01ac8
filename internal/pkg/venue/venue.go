// Package venue resolves boat-race venue names out of free-text event
// titles and maps them to the two-digit jcd codes used by result and
// race-list page URLs.
package venue

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolved is returned when no known venue name occurs in the
// title. Callers must handle it explicitly; there is no default venue.
var ErrUnresolved = errors.New("venue: no known venue name in title")

// venues is the fixed table of all 24 venues, in jcd order. Resolution
// is a linear substring scan preferring the longest match, since 津
// is itself a substring of 唐津.
var venues = []struct {
	Name string
	Code string
}{
	{"桐生", "01"},
	{"戸田", "02"},
	{"江戸川", "03"},
	{"平和島", "04"},
	{"多摩川", "05"},
	{"浜名湖", "06"},
	{"蒲郡", "07"},
	{"常滑", "08"},
	{"津", "09"},
	{"三国", "10"},
	{"びわこ", "11"},
	{"住之江", "12"},
	{"尼崎", "13"},
	{"鳴門", "14"},
	{"丸亀", "15"},
	{"児島", "16"},
	{"宮島", "17"},
	{"徳山", "18"},
	{"下関", "19"},
	{"若松", "20"},
	{"芦屋", "21"},
	{"福岡", "22"},
	{"唐津", "23"},
	{"大村", "24"},
}

// Resolve finds the venue named inside an event title and returns its
// name and jcd code. A title mentioning no known venue yields
// ErrUnresolved wrapped with the offending title.
func Resolve(title string) (name, code string, err error) {
	for _, v := range venues {
		if !strings.Contains(title, v.Name) {
			continue
		}
		if len(v.Name) > len(name) {
			name, code = v.Name, v.Code
		}
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrUnresolved, title)
	}
	return name, code, nil
}

// Code returns the jcd code for an exact venue name.
func Code(name string) (string, bool) {
	for _, v := range venues {
		if v.Name == name {
			return v.Code, true
		}
	}
	return "", false
}
