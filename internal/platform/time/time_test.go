package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatal("zero time should be nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatal("non zero time should round trip")
	}
}

func TestParse(t *testing.T) {
	cases := map[string]string{
		"2026-01-02T03:04:05Z":   "2026-01-02T03:04:05Z",
		"2026-01-02 03:04:05":    "2026-01-02T03:04:05Z",
		"2026-01-02 03:04:05+02": "2026-01-02T01:04:05Z",
		" 2026-01-02 ":           "2026-01-02T00:00:00Z",
	}
	for in, want := range cases {
		got, ok := Parse(in)
		if !ok || got.UTC().Format(time.RFC3339) != want {
			t.Fatalf("Parse(%q) = %v %v, want %s", in, got, ok, want)
		}
	}
	if _, ok := Parse("next tuesday"); ok {
		t.Fatal("garbage should not parse")
	}
	if _, ok := Parse("02/01/2026", "02/01/2006"); !ok {
		t.Fatal("explicit layout should parse")
	}
}
