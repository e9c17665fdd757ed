package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestExplainList(t *testing.T) {
	var out bytes.Buffer
	if err := runExplain(&out, ""); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "CODE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "E101") {
		t.Errorf("first code = %q, want E101", lines[1])
	}
	if !strings.Contains(out.String(), "E401") {
		t.Errorf("missing E401:\n%s", out.String())
	}
}

func TestExplainCode(t *testing.T) {
	var out bytes.Buffer
	if err := runExplain(&out, "e110"); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "E110 (expression): Expression failed") {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(got, "retried when one of its inputs changes") {
		t.Errorf("detail missing:\n%s", got)
	}
}

func TestExplainUnknownCode(t *testing.T) {
	var out bytes.Buffer
	err := runExplain(&out, "E000")
	if err == nil || !strings.Contains(err.Error(), `Unknown error code "E000"`) {
		t.Errorf("err = %v", err)
	}
}
