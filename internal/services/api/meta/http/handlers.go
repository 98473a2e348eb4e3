// Package http serves the meta endpoints: health, readiness, version and service uptime
package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"grantdir/internal/core/version"
	"grantdir/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is one backend readiness check
type Pinger interface {
	Ping(context.Context) error
}

// Deps feed the meta handlers
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Probes by backend name, a nil probe is a backend that is not configured
	Probes map[string]Pinger
	// Timeout bounds one readiness round, default 2s
	Timeout time.Duration
}

// Register mounts /health, /ready, /version and /service
func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := meta{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse says the process is up
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service" example:"grantdir-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Now     string `json:"now" example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck is one backend's readiness check result
type ReadyCheck struct {
	Name string `json:"name" example:"pg"`
	// Status is ok, fail or skipped
	Status    string `json:"status" example:"ok"`
	Error     string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// ReadyResponse is ok when every configured backend answers, degraded when some are
// not configured and fail when any configured one does not answer
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse is the process start and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name" example:"grantdir-api"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime" example:"300"`
}

type meta struct{ d Deps }

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags    Meta
// @Router  /meta/health [get]
func (h meta) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.d.ServiceName, Started: stamp(h.d.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness, answers 503 when a configured backend is down
// @Tags    Meta
// @Router  /meta/ready [get]
func (h meta) ready(r *http.Request) (any, error) {
	names := make([]string, 0, len(h.d.Probes))
	for name := range h.d.Probes {
		names = append(names, name)
	}
	slices.Sort(names)

	ctx, cancel := context.WithTimeout(r.Context(), h.d.Timeout)
	defer cancel()

	checks := make([]ReadyCheck, len(names))
	var g errgroup.Group
	for i, name := range names {
		checks[i] = ReadyCheck{Name: name, Status: "skipped"}
		p := h.d.Probes[name]
		if p == nil {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			err := p.Ping(ctx)
			checks[i].ElapsedMS = time.Since(start).Milliseconds()
			checks[i].Status = "ok"
			if err != nil {
				checks[i].Status, checks[i].Error = "fail", err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := ReadyResponse{Status: "ok", Checks: checks, Now: stamp(time.Now())}
	for _, c := range checks {
		switch {
		case c.Status == "fail":
			out.Status = "fail"
		case c.Status == "skipped" && out.Status == "ok":
			out.Status = "degraded"
		}
	}
	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// @Summary Service uptime
// @Tags    Meta
// @Router  /meta/service [get]
func (h meta) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.d.ServiceName,
		Started: stamp(h.d.StartedAt),
		Uptime:  int64(time.Since(h.d.StartedAt).Seconds()),
	}, nil
}
