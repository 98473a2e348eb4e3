// Package module mounts the meta endpoints: version, liveness and readiness
package module

import (
	"time"

	"grantdir/internal/core/version"
	modkit "grantdir/internal/modkit"
	"grantdir/internal/modkit/httpkit"
	"grantdir/internal/platform/store"

	metahttp "grantdir/internal/services/api/meta/http"
)

type Module struct{ modkit.Base }

// New builds the meta module, readiness probes come from deps.Probes
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	startedAt := time.Now()
	probes := probesOf(deps.Probes)
	return &Module{Base: b.Base(func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   startedAt,
			Probes:      probes,
		})
	})}
}

func probesOf(in map[string]store.Pinger) map[string]metahttp.Pinger {
	out := make(map[string]metahttp.Pinger, len(in))
	for name, p := range in {
		out[name] = p
	}
	return out
}
