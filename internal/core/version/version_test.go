package version

import "testing"

func TestInfo_LinkedValuesWin(t *testing.T) {
	oldV, oldC, oldD := version, commit, date
	t.Cleanup(func() { version, commit, date = oldV, oldC, oldD })

	version, commit, date = "v1.4.0", "abc123", "2026-10-01"
	got := Info()
	if got.Service != "grantdir-api" || got.Version != "v1.4.0" || got.Commit != "abc123" || got.Date != "2026-10-01" {
		t.Fatalf("Info = %+v", got)
	}
}

func TestInfo_Fallbacks(t *testing.T) {
	oldC, oldD := commit, date
	t.Cleanup(func() { commit, date = oldC, oldD })
	commit, date = "", ""

	got := Info()
	if got.Commit == "" || got.Date == "" {
		t.Fatalf("commit and date should never be empty: %+v", got)
	}
}

func TestFirst(t *testing.T) {
	if got := first("", "b", "c"); got != "b" {
		t.Fatalf("first = %q", got)
	}
	if got := first("", ""); got != "" {
		t.Fatalf("first of blanks = %q", got)
	}
}
