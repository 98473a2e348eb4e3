package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	// AppName is reported to every backend that accepts a client name
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// LogSQL logs every statement through the store logger
	LogSQL bool
	// Slow flags queries at or above this duration
	Slow time.Duration
	// StatementTimeout caps statements server side
	StatementTimeout time.Duration

	// ConnectRetries bounds boot pings, default 20
	ConnectRetries int
	// PingTimeout bounds each boot ping, default 3s
	PingTimeout time.Duration
}

// CHConfig configures clickhouse
// ClientTag is reported next to AppName as client info
type CHConfig struct {
	Enabled   bool
	URL       string
	ClientTag string
}

// RedisConfig configures redis
// URL takes the redis:// form, a non zero DB overrides the database in the URL
type RedisConfig struct {
	Enabled bool
	URL     string
	DB      int
}
