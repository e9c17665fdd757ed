package main

import (
	"testing"

	"github.com/ucom-dev/ucom/pkg/bind"
)

func TestLocatorFind(t *testing.T) {
	src := "<div>\n  <p u-text=\"a +\"></p>\n  <p u-text='a +'></p>\n  <b $name></b>\n</div>\n<param value=\"1\">"

	tests := []struct {
		name       string
		problem    bind.Problem
		line, col  int
		wantsFound bool
	}{
		{"attribute", bind.Problem{Tag: "p", Attr: "u-text", Value: "a +"}, 2, 6, true},
		{"repeated attribute", bind.Problem{Tag: "p", Attr: "u-text", Value: "a +"}, 3, 6, true},
		{"no further match", bind.Problem{Tag: "p", Attr: "u-text", Value: "a +"}, 0, 0, false},
		{"empty value", bind.Problem{Tag: "b", Attr: "$name"}, 4, 6, true},
		{"element", bind.Problem{Tag: "param"}, 6, 1, true},
		{"missing", bind.Problem{Tag: "p", Attr: "u-html", Value: "x"}, 0, 0, false},
	}

	loc := newLocator(src)
	for _, tt := range tests {
		line, col, ok := loc.find(tt.problem)
		if ok != tt.wantsFound || line != tt.line || col != tt.col {
			t.Errorf("%s: find = %d:%d %v, want %d:%d %v", tt.name, line, col, ok, tt.line, tt.col, tt.wantsFound)
		}
	}
}
