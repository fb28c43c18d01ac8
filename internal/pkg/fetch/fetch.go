// Package fetch retrieves pages from the two race-information sites.
// It owns the politeness contract: an explicit host allow-list, a
// browser-identifying header set, a bounded timeout and a fixed delay
// between consecutive requests to avoid being throttled.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sunagitsune/kyoteibet/internal/pkg/extract"
)

const (
	KyoteibiyoriBase = "https://kyoteibiyori.com"
	BoatraceBase     = "https://www.boatrace.jp/owpc/pc/race"

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// Flattened page text is capped before it reaches the prediction
	// prompt; the marker makes the cut visible to the model.
	maxTextLen      = 6000
	truncatedMarker = "\n...(以下省略)"
)

var allowedHosts = map[string]bool{
	"www.boatrace.jp":  true,
	"boatrace.jp":      true,
	"kyoteibiyori.com": true,
}

// Client fetches pages with a shared http.Client and paces consecutive
// requests by Delay. One Client serves one run; it is not safe for
// concurrent use (the pacing is deliberately serial).
type Client struct {
	httpClient *http.Client
	userAgent  string
	delay      time.Duration
	lastFetch  time.Time
}

// NewClient builds a fetch client. A zero timeout defaults to 20s, a
// zero delay to 1s; an empty userAgent falls back to the browser UA.
func NewClient(timeout, delay time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if delay <= 0 {
		delay = time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		delay:      delay,
	}
}

// Page fetches one URL and returns the raw markup. Hosts outside the
// allow-list are refused before any request is made.
func (c *Client) Page(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if !allowedHosts[u.Hostname()] {
		return "", fmt.Errorf("host %q is not allowed", u.Hostname())
	}

	c.pace(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body from %s: %w", rawURL, err)
	}
	return string(body), nil
}

// PageText fetches a URL and flattens it to capped plain text.
func (c *Client) PageText(ctx context.Context, rawURL string) (string, error) {
	markup, err := c.Page(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return CapText(extract.Text(markup)), nil
}

// CapText truncates flattened page text at the prompt budget, marking
// the cut.
func CapText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTextLen {
		return text
	}
	return string(runes[:maxTextLen]) + truncatedMarker
}

// pace sleeps out the remainder of the inter-request delay. The first
// request of a run goes out immediately.
func (c *Client) pace(ctx context.Context) {
	if !c.lastFetch.IsZero() {
		if wait := c.delay - time.Since(c.lastFetch); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
		}
	}
	c.lastFetch = time.Now()
}

// RacerPageURL is the kyoteibiyori profile page for one racer.
func RacerPageURL(racerNo string) string {
	return fmt.Sprintf("%s/racer/racer_no/%s", KyoteibiyoriBase, racerNo)
}

// RaceListURL is the official entry-list page for one race.
func RaceListURL(rno, jcd, date string) string {
	return fmt.Sprintf("%s/racelist?rno=%s&jcd=%s&hd=%s", BoatraceBase, rno, jcd, date)
}

// TrifectaOddsURL is the official trifecta odds page for one race.
func TrifectaOddsURL(rno, jcd, date string) string {
	return fmt.Sprintf("%s/odds3t?rno=%s&jcd=%s&hd=%s", BoatraceBase, rno, jcd, date)
}

// BeforeInfoURL is the official just-before-race information page.
func BeforeInfoURL(rno, jcd, date string) string {
	return fmt.Sprintf("%s/beforeinfo?rno=%s&jcd=%s&hd=%s", BoatraceBase, rno, jcd, date)
}

// RaceResultURL is the official single-race result page.
func RaceResultURL(rno, jcd, date string) string {
	return fmt.Sprintf("%s/raceresult?rno=%s&jcd=%s&hd=%s", BoatraceBase, rno, jcd, date)
}

// ResultListURL is the official all-races result listing for one venue
// and day.
func ResultListURL(jcd, date string) string {
	return fmt.Sprintf("%s/resultlist?jcd=%s&hd=%s", BoatraceBase, jcd, date)
}
