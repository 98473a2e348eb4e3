package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact(t *testing.T) {
	cases := map[string]string{
		"select 1":                               "select 1",
		"  select   1  ":                         "select 1",
		"SELECT\t*\nFROM\r\tgrants WHERE  a = 1": "SELECT * FROM grants WHERE a = 1",
		"":                                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, compact(in), "compact(%q)", in)
	}
}

func TestTracerLevels(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	var line struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		SQL       string  `json:"sql"`
		Args      int     `json:"args"`
		Component string  `json:"component"`
	}

	tr.OnQuery(context.Background(), QueryEvent{
		SQL:     "SELECT *\n FROM grants",
		Args:    []any{1, "CA"},
		Elapsed: 12345 * time.Microsecond,
	})
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "info", line.Level)
	assert.InDelta(t, 12.345, line.ElapsedMS, 0.0005)
	assert.Equal(t, "SELECT * FROM grants", line.SQL)
	assert.Equal(t, 2, line.Args)
	assert.Equal(t, "pg", line.Component)

	for _, ev := range []QueryEvent{{SQL: "x", Slow: true}, {SQL: "x", Err: errors.New("boom")}} {
		buf.Reset()
		tr.OnQuery(context.Background(), ev)
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
		assert.Equal(t, "warn", line.Level)
	}
}

func TestTee(t *testing.T) {
	assert.Nil(t, Tee())
	assert.Nil(t, Tee(nil, nil))

	var a, b int
	ta := TracerFunc(func(context.Context, QueryEvent) { a++ })
	tb := TracerFunc(func(context.Context, QueryEvent) { b++ })

	Tee(nil, ta).OnQuery(context.Background(), QueryEvent{})
	assert.Equal(t, 1, a)

	Tee(ta, nil, tb).OnQuery(context.Background(), QueryEvent{})
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}
