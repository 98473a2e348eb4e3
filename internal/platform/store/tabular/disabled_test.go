package tabular

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDisabledLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisabled(zerolog.New(&buf))

	for range 3 {
		_, err := d.Select(context.Background(), Query{Table: "grants"})
		assert.True(t, IsNotConfigured(err))
		assert.False(t, IsMissingTable(err))
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "no listing backend configured"))
	assert.Equal(t, "disabled", d.Name())
}
