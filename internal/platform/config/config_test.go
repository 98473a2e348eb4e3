package config

import (
	"testing"
	"time"

	kit "grantdir/internal/platform/testkit"
)

func TestPrefixNests(t *testing.T) {
	c := New().Prefix("SERVICE_").Prefix("PGSQL_")
	if got := c.Key("DBURL"); got != "SERVICE_PGSQL_DBURL" {
		t.Fatalf("Key = %q", got)
	}
}

func TestMayTyped(t *testing.T) {
	c := New().Prefix("GD_TEST_")
	t.Setenv("GD_TEST_NAME", "  grantdir ")
	t.Setenv("GD_TEST_CONNS", " 8 ")
	t.Setenv("GD_TEST_RPS", "2.5")
	t.Setenv("GD_TEST_SWAGGER", "false")
	t.Setenv("GD_TEST_SLOW", "250ms")
	t.Setenv("GD_TEST_BAD_INT", "eight")
	t.Setenv("GD_TEST_BAD_DUR", "soon")
	t.Setenv("GD_TEST_BLANK", "   ")

	if got := c.MayString("NAME", "x"); got != "grantdir" {
		t.Errorf("MayString = %q", got)
	}
	if got := c.MayString("BLANK", "fallback"); got != "fallback" {
		t.Errorf("blank MayString = %q", got)
	}
	if got := c.MayInt("CONNS", 4); got != 8 {
		t.Errorf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD_INT", 4); got != 4 {
		t.Errorf("invalid MayInt = %d, want default", got)
	}
	if got := c.MayFloat64("RPS", 0); got != 2.5 {
		t.Errorf("MayFloat64 = %v", got)
	}
	if c.MayBool("SWAGGER", true) {
		t.Errorf("MayBool should read false")
	}
	if !c.MayBool("MISSING", true) {
		t.Errorf("missing MayBool should default")
	}
	if got := c.MayDuration("SLOW", time.Second); got != 250*time.Millisecond {
		t.Errorf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD_DUR", time.Second); got != time.Second {
		t.Errorf("invalid MayDuration = %v, want default", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("GD_CSV_")
	t.Setenv("GD_CSV_ORIGINS", " https://a.gov , ,https://b.gov ")
	t.Setenv("GD_CSV_EMPTY", " , , ")

	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.gov" || got[1] != "https://b.gov" {
		t.Fatalf("MayCSV = %q", got)
	}
	def := []string{"grants_view", "grants"}
	if got := c.MayCSV("EMPTY", def); len(got) != 2 || got[0] != "grants_view" {
		t.Fatalf("blank list should default, got %q", got)
	}
	if got := c.MayCSV("MISSING", def); len(got) != 2 {
		t.Fatalf("missing list should default, got %q", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("GD_ENUM_")
	t.Setenv("GD_ENUM_FORMAT", "JSON")
	if got := c.MayEnum("FORMAT", "console", "console", "json"); got != "json" {
		t.Fatalf("MayEnum = %q, want the allowed spelling", got)
	}
	if got := c.MayEnum("MISSING", "console", "console", "json"); got != "console" {
		t.Fatalf("missing MayEnum = %q", got)
	}
	t.Setenv("GD_ENUM_BAD", "xml")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "console", "console", "json") })
}

func TestMustStringAndRequire(t *testing.T) {
	c := New().Prefix("GD_REQ_")
	t.Setenv("GD_REQ_DBURL", "postgres://localhost/grantdir")
	t.Setenv("GD_REQ_BLANK", "  ")

	if got := c.MustString("DBURL"); got != "postgres://localhost/grantdir" {
		t.Fatalf("MustString = %q", got)
	}
	c.Require("DBURL")
	kit.MustPanic(t, func() { c.Require("DBURL", "BLANK") })
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}
