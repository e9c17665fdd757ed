package main

import (
	"regexp"
	"strings"

	"github.com/ucom-dev/ucom/pkg/bind"
)

// locator finds check problems in the source of one component file.
// Problems arrive in document order, so a repeated pattern resumes after
// its previous match.
type locator struct {
	src    string
	resume map[string]int
}

func newLocator(src string) *locator {
	return &locator{src: src, resume: make(map[string]int)}
}

// find returns the 1-based line and column of the problem's attribute, or
// of its element when the problem has no attribute. Values written with
// character references are not found.
func (l *locator) find(pr bind.Problem) (line, column int, ok bool) {
	var pattern string
	switch {
	case pr.Attr == "":
		pattern = `(?i)<` + regexp.QuoteMeta(pr.Tag) + `[\s/>]`
	case pr.Value == "":
		pattern = `(?i)\s` + regexp.QuoteMeta(pr.Attr) + `(?:[\s/>=]|$)`
	default:
		pattern = `(?i)\s` + regexp.QuoteMeta(pr.Attr) + `\s*=\s*["']?` + regexp.QuoteMeta(pr.Value)
	}

	from := l.resume[pattern]
	m := regexp.MustCompile(pattern).FindStringIndex(l.src[from:])
	if m == nil {
		return 0, 0, false
	}
	l.resume[pattern] = from + m[1]

	pos := from + m[0]
	if pr.Attr != "" {
		pos++ // leading whitespace
	}
	line = strings.Count(l.src[:pos], "\n") + 1
	column = pos - strings.LastIndex(l.src[:pos], "\n")
	return line, column, true
}
