package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are the elements whose closing emits a line break, so the
// flattened text keeps the page's visual structure.
var blockTags = map[string]bool{
	"p": true, "div": true, "tr": true, "li": true, "table": true,
	"section": true,
	"h1":      true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var tripleBreak = regexp.MustCompile(`\n{3,}`)

// Text flattens markup into plain text. Content of script, style and
// noscript elements is suppressed, table cells are separated by " | ",
// block elements end with a line break, and runs of three or more line
// breaks collapse to two. Malformed markup never fails: the tokenizer
// implicitly closes anything left open at stream end.
func Text(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	skip := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			text := tripleBreak.ReplaceAllString(b.String(), "\n\n")
			return strings.TrimSpace(text)

		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skip = true
			case "td", "th":
				b.WriteString(" | ")
			case "br":
				b.WriteString("\n")
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.WriteString("\n")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" || tag == "noscript" {
				skip = false
				continue
			}
			if blockTags[tag] {
				b.WriteString("\n")
			}

		case html.TextToken:
			if skip {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				b.WriteString(text)
			}
		}
	}
}
