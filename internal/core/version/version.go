// Package version reports what build is running
package version

import (
	"runtime/debug"
	"sync"
)

// BuildInfo is served by /api/meta/version and tags log lines
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// set with -ldflags "-X grantdir/internal/core/version.version=v1.2.0 -X ...commit=abc123 -X ...date=2026-10-01"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var fromVCS = sync.OnceValue(func() BuildInfo {
	var out BuildInfo
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.Date = s.Value
		}
	}
	return out
})

// Info returns the linked build values, commit and date fall back to the vcs stamp go build records
func Info() BuildInfo {
	vcs := fromVCS()
	return BuildInfo{
		Service: "grantdir-api",
		Version: version,
		Commit:  first(commit, vcs.Commit, "none"),
		Date:    first(date, vcs.Date, "unknown"),
	}
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
