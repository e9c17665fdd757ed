package errors

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "directive error",
			code:    "E101",
			wantMsg: "Malformed directive",
			wantCat: CategoryDirective,
		},
		{
			name:    "store error",
			code:    "E102",
			wantMsg: "Duplicate store key",
			wantCat: CategoryStore,
		},
		{
			name:    "component error",
			code:    "E201",
			wantMsg: "Component fetch failed",
			wantCat: CategoryComponent,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := New("E110")
	if got, want := err.Error(), "E110: Expression failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Wrap(stderrors.New("unexpected token"))
	if got := err.Error(); !strings.HasSuffix(got, ": unexpected token") {
		t.Errorf("Error() should include the cause, got %q", got)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E201").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E110") != nil {
		t.Error("nil error should stay nil")
	}

	coded := New("E102")
	if FromError(coded, "E110") != coded {
		t.Error("an *Error should be returned unchanged")
	}

	wrapped := FromError(stderrors.New("x"), "E110")
	if wrapped.Code != "E110" || wrapped.Wrapped == nil {
		t.Errorf("unexpected wrap %+v", wrapped)
	}
}

func TestWithLocationReadsContext(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x-card.html")
	src := "<div>\n<p u-text=\"a +\"></p>\n</div>\n"
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("E110").WithLocation(file, 2, 0)
	if len(err.Context) == 0 {
		t.Fatal("expected context lines")
	}
	if !strings.Contains(strings.Join(err.Context, "\n"), `u-text="a +"`) {
		t.Errorf("context should contain the failing line: %v", err.Context)
	}
	if err.ContextStart != 1 || len(err.Context) != 3 {
		t.Errorf("context starts at %d with %d lines, want 1 and 3", err.ContextStart, len(err.Context))
	}
}

func TestFormatLocation(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	dir := t.TempDir()
	file := filepath.Join(dir, "x-card.html")
	src := "<p u-text=\"a +\"></p>\n<b></b>\n"
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	out := New("E110").WithLocation(file, 1, 4).Format()
	for _, want := range []string{
		file + ":1:4",
		"→    1 │ <p u-text=",
		"     2 │ <b></b>",
		"│    ^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormat(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	err := New("E120").WithSuggestion("Use <template u-is=...>")
	out := err.Format()

	for _, want := range []string{"ERROR E120", "Dynamic tag directive", "Hint: Use <template"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E103")
	err.Location = &Location{File: "a.html", Line: 3}
	if got, want := err.FormatCompact(), "a.html:3: E103: Missing directive value"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E201").Wrap(stderrors.New(`status "404"`))

	var decoded map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &decoded); e != nil {
		t.Fatalf("FormatJSON is not valid JSON: %v", e)
	}
	if decoded["code"] != "E201" || decoded["cause"] != `status "404"` {
		t.Errorf("unexpected JSON %v", decoded)
	}
}

func TestLogValue(t *testing.T) {
	v := New("E102").LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", v.Kind())
	}
	found := false
	for _, a := range v.Group() {
		if a.Key == "code" && a.Value.String() == "E102" {
			found = true
		}
	}
	if !found {
		t.Error("group should carry the code")
	}
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}

func TestGetTemplate(t *testing.T) {
	tpl, ok := GetTemplate("E401")
	if !ok || tpl.Category != CategoryCLI {
		t.Errorf("GetTemplate(E401) = %+v, %v", tpl, ok)
	}
	if _, ok := GetTemplate("E000"); ok {
		t.Error("E000 should not be registered")
	}
}

func TestPrintError(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	var coded strings.Builder
	PrintError(&coded, New("E401"))
	if !strings.Contains(coded.String(), "ERROR E401: Component directory not found") {
		t.Errorf("coded error printed as %q", coded.String())
	}

	var plain strings.Builder
	PrintError(&plain, stderrors.New("boom"))
	if got := plain.String(); got != "\nERROR: boom\n\n" {
		t.Errorf("plain error printed as %q", got)
	}
}
