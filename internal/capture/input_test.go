package capture

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func TestParseDeadline(t *testing.T) {
	cases := map[string]time.Time{
		"2024-05-11 09:30": time.Date(2024, 5, 11, 9, 30, 0, 0, time.UTC),
		"11/05/2024 09:30": time.Date(2024, 5, 11, 9, 30, 0, 0, time.UTC),
		"2024-05-11":       time.Date(2024, 5, 11, 23, 59, 0, 0, time.UTC),
		"+2h":              testNow.Add(2 * time.Hour),
	}
	for in, want := range cases {
		got, err := ParseDeadline(in, testNow)
		if err != nil {
			t.Errorf("ParseDeadline(%q) failed: %v", in, err)
			continue
		}
		if got != want.UnixMilli() {
			t.Errorf("ParseDeadline(%q): expected %v, got %v", in, want, time.UnixMilli(got).UTC())
		}
	}
	for _, bad := range []string{"amanhã", "+-1h", "2024-13-01"} {
		if _, err := ParseDeadline(bad, testNow); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	if n, ok := ParseMinutes("45min"); !ok || n != 45 {
		t.Errorf("Expected 45, got %d %v", n, ok)
	}
	if _, ok := ParseMinutes("0"); ok {
		t.Error("Expected zero to be rejected")
	}
	if _, ok := ParseMinutes("muito"); ok {
		t.Error("Expected text to be rejected")
	}
}
