package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenNothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Nil(t, s.PG)
	assert.Nil(t, s.CH)
	assert.Nil(t, s.Redis)

	probes := s.Probes()
	assert.Len(t, probes, 1)
	assert.Nil(t, probes["pg"])
	assert.NoError(t, s.Guard(context.Background()))
	assert.NoError(t, s.Close(context.Background()))
}

func TestOpenClickhouseIsLazy(t *testing.T) {
	s, err := Open(context.Background(), Config{
		AppName: "grantdir-api",
		CH:      CHConfig{Enabled: true, URL: "clickhouse://127.0.0.1:9000/default", ClientTag: "api"},
	})
	require.NoError(t, err)
	require.NotNil(t, s.CH)
	assert.Nil(t, s.PG)
	assert.Contains(t, s.Probes(), "ch")
	assert.NoError(t, s.Close(context.Background()))
}

func TestOpenPGBadURL(t *testing.T) {
	s, err := Open(context.Background(), Config{
		PG: PGConfig{Enabled: true, URL: "://bad"},
		CH: CHConfig{Enabled: true, URL: "clickhouse://127.0.0.1:9000/default"},
	})
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestOpenRedis(t *testing.T) {
	s, err := Open(context.Background(), Config{
		AppName: "grantdir-test",
		RDS:     RedisConfig{Enabled: true, URL: "redis://127.0.0.1:6379/0", DB: 3},
	})
	require.NoError(t, err)
	require.NotNil(t, s.Redis)
	assert.Equal(t, 3, s.Redis.Options().DB)
	assert.Equal(t, "grantdir-test", s.Redis.Options().ClientName)
	assert.Contains(t, s.Probes(), "redis")
	assert.NoError(t, s.Close(context.Background()))
}

func TestOpenRedisBadURL(t *testing.T) {
	_, err := Open(context.Background(), Config{RDS: RedisConfig{Enabled: true, URL: "ftp://nope"}})
	require.Error(t, err)
}

func TestOpenOptionError(t *testing.T) {
	bad := func(*Store) error { return errors.New("nope") }
	_, err := Open(context.Background(), Config{}, bad)
	require.EqualError(t, err, "nope")
}

func TestGuardJoinsFailures(t *testing.T) {
	s := &Store{
		CH: newClickhouse(&fakeCH{pingErr: errors.New("ch down")}),
	}
	err := s.Guard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ch: ch down")

	var nilStore *Store
	assert.Error(t, nilStore.Guard(context.Background()))
	assert.NoError(t, nilStore.Close(context.Background()))
	assert.Contains(t, nilStore.Probes(), "pg")
}
