// Package extract implements single-pass streaming extractors over HTML
// token events for the two race-information sites. The pages reuse the
// same generic container classes for several logical sections, so the
// extractors rely on position and nesting depth rather than semantic
// markup: each logical section is followed by its own region tracker.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// regionTracker monitors whether the scan is currently inside one
// specific nested container. The container is identified by its opening
// tag only; every further open of the same element type increments the
// depth and every close decrements it, so the tracker knows when the
// original container has actually closed.
//
// A one-shot tracker refuses to re-activate after its container closed
// once. That is how duplicated sections on the source pages are
// tolerated: only the first occurrence is honored.
type regionTracker struct {
	oneShot  bool
	depth    int
	consumed bool
}

// Active reports whether the scan is inside the tracked container.
func (r *regionTracker) Active() bool { return r.depth > 0 }

// Consumed reports whether a one-shot tracker has already seen its
// container open and close.
func (r *regionTracker) Consumed() bool { return r.consumed }

// Enter must be called for every start tag of the container's element
// type. isTarget marks tags that open the tracked container itself.
func (r *regionTracker) Enter(isTarget bool) {
	switch {
	case r.depth > 0:
		r.depth++
	case isTarget && !(r.oneShot && r.consumed):
		r.depth = 1
	}
}

// Leave must be called for every end tag of the container's element
// type. It reports true when the tracked container itself has just
// closed.
func (r *regionTracker) Leave() bool {
	if r.depth == 0 {
		return false
	}
	r.depth--
	if r.depth == 0 {
		r.consumed = true
		return true
	}
	return false
}

// attrVal returns the value of the named attribute, or "".
func attrVal(t html.Token, key string) string {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether the token's class attribute mentions the
// given marker. Substring matching is deliberate: the sites decorate
// the marker classes with modifiers ("racer_table is-wide" etc.).
func hasClass(t html.Token, marker string) bool {
	return strings.Contains(attrVal(t, "class"), marker)
}
