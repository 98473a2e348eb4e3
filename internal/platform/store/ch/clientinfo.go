package ch

import (
	"os"
	"runtime"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"grantdir/internal/core/version"
)

// BuildClientInfo tags queries in system.query_log with the app, build, and host.
// Entries with an empty value are left out.
func BuildClientInfo(app, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	commit := version.Info().Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}

	var ci clickhouse.ClientInfo
	for _, p := range [][2]string{
		{"grantdir", tag},
		{"app", app},
		{"commit", commit},
		{"go", runtime.Version()},
		{"host", host},
	} {
		if v := strings.TrimSpace(p[1]); v != "" {
			ci.Products = append(ci.Products, struct{ Name, Version string }{p[0], v})
		}
	}
	return ci
}
