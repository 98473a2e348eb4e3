// Package module wires the canonical listing routes for one listing kind
package module

import (
	"grantdir/internal/core/listing"
	"grantdir/internal/core/paths"
	modkit "grantdir/internal/modkit"
	"grantdir/internal/modkit/httpkit"
	chttp "grantdir/internal/services/api/canonical/http"
)

// Module mounts /{kind}/federal|state|local routes outside the /api root
// it exposes no ports
type Module struct{ modkit.Base }

// Ports declares the injected port this module needs
type Ports struct {
	Listings chttp.Resolver
}

// New constructs the canonical routes for kind; a Ports value with Listings must be injected
func New(deps modkit.Deps, kind listing.Kind, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("canonical-" + kind.Plural()),
		modkit.WithPrefix(kind.Base()),
	}, opts...)...)

	injected, _ := modkit.Injected[Ports](b)
	if injected.Listings == nil {
		panic("canonical module requires a Listings port")
	}
	builder := paths.NewBuilder(deps.Resolver())

	return &Module{Base: b.Base(func(r httpkit.Router) { chttp.Register(r, injected.Listings, builder) })}
}
