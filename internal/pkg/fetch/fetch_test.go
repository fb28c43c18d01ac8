package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestPageRefusesUnknownHost(t *testing.T) {
	c := NewClient(time.Second, time.Millisecond, "")

	_, err := c.Page(context.Background(), "https://example.com/racer/racer_no/4320")
	if err == nil || !strings.Contains(err.Error(), "not allowed") {
		t.Errorf("Page() error = %v, want host refusal", err)
	}
}

func TestPageSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()
	allowTestHost(t, srv.URL)

	c := NewClient(time.Second, time.Millisecond, "")
	body, err := c.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page() error: %v", err)
	}
	if !strings.Contains(body, "ok") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("User-Agent = %q, want a browser UA", gotUA)
	}
	if !strings.Contains(gotLang, "ja") {
		t.Errorf("Accept-Language = %q, want Japanese first", gotLang)
	}
}

func TestPageRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	allowTestHost(t, srv.URL)

	c := NewClient(time.Second, time.Millisecond, "")
	if _, err := c.Page(context.Background(), srv.URL); err == nil {
		t.Error("Page() error = nil, want status failure")
	}
}

func TestCapText(t *testing.T) {
	short := "短いテキスト"
	if got := CapText(short); got != short {
		t.Errorf("CapText() changed short text: %q", got)
	}

	long := strings.Repeat("あ", maxTextLen+100)
	got := CapText(long)
	if !strings.HasSuffix(got, truncatedMarker) {
		t.Error("capped text lacks the truncation marker")
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, truncatedMarker)); n != maxTextLen {
		t.Errorf("capped text has %d runes before the marker, want %d", n, maxTextLen)
	}
}

func TestURLBuilders(t *testing.T) {
	if got := RacerPageURL("4320"); got != "https://kyoteibiyori.com/racer/racer_no/4320" {
		t.Errorf("RacerPageURL() = %q", got)
	}
	want := "https://www.boatrace.jp/owpc/pc/race/racelist?rno=5&jcd=19&hd=20260827"
	if got := RaceListURL("5", "19", "20260827"); got != want {
		t.Errorf("RaceListURL() = %q, want %q", got, want)
	}
	if got := ResultListURL("19", "20260827"); !strings.Contains(got, "resultlist?jcd=19&hd=20260827") {
		t.Errorf("ResultListURL() = %q", got)
	}
	for _, u := range []string{
		TrifectaOddsURL("5", "19", "20260827"),
		BeforeInfoURL("5", "19", "20260827"),
		RaceResultURL("5", "19", "20260827"),
	} {
		if !strings.Contains(u, "rno=5&jcd=19&hd=20260827") {
			t.Errorf("URL %q lacks the rno/jcd/hd params", u)
		}
	}
}

// allowTestHost admits the httptest server's loopback host for the
// duration of one test.
func allowTestHost(t *testing.T, rawURL string) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	host := u.Hostname()
	allowedHosts[host] = true
	t.Cleanup(func() { delete(allowedHosts, host) })
}
