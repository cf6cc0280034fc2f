package xref

import (
	"html"
	"regexp"
)

var (
	rawURL     = regexp.MustCompile(`<(https?://[^\s<>"]+)>`)
	escapedURL = regexp.MustCompile(`&lt;(https?://[^\s<>"]+?)&gt;`)
)

// LinkifyURLs replaces <http://...> and <https://...> with anchors opening in
// a new window. With escape set, line is plain text: it is HTML-escaped first
// and the escaped brackets are matched instead.
func LinkifyURLs(line string, escape bool) string {
	re := rawURL
	if escape {
		line = html.EscapeString(line)
		re = escapedURL
	}
	return re.ReplaceAllString(line, `<a target="_blank" href="$1">$1</a>`)
}
