package modkit

import (
	"net/http"

	"grantdir/internal/modkit/httpkit"
	"grantdir/internal/modkit/module"
	str "grantdir/internal/platform/strings"
)

// Module is the contract api.Mount composes
type Module = module.Module

// Option tunes a module at construction
type Option func(*Built)

// Built is the option state a module constructor reads
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	// Inject carries ports another module provides, see Injected
	Inject any
	// Extra registers additional routes after the module's own
	Extra func(httpkit.Router)
}

// Build applies opts in order
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix sets the path the module mounts under
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects ports a module needs from another, the type is owned by the receiving module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Inject = p } }

// WithRoutes adds routes beside the module's own, mostly for tests and one off endpoints
func WithRoutes(fn func(httpkit.Router)) Option { return func(b *Built) { b.Extra = fn } }

// Injected returns the injected ports as T, ok is false when none of that type were given
func Injected[T any](b Built) (T, bool) {
	p, ok := b.Inject.(T)
	return p, ok
}

// Base implements Module for the modules that embed it
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	routes func(httpkit.Router)
	ports  any
}

// Base pairs the built options with the module's route registration
func (b Built) Base(routes func(httpkit.Router)) Base {
	extra := b.Extra
	return Base{
		name:   b.Name,
		prefix: b.Prefix,
		mw:     b.Mw,
		routes: func(r httpkit.Router) {
			routes(r)
			if extra != nil {
				extra(r)
			}
		},
	}
}

// MountRoutes mounts the module under its prefix behind its middleware
func (m *Base) MountRoutes(r httpkit.Router) {
	httpkit.Mount(r, m.Prefix(), m.mw, m.routes)
}

// Expose sets what Ports returns
func (m *Base) Expose(ports any) { m.ports = ports }

func (m *Base) Ports() any { return m.ports }

func (m *Base) Name() string { return str.MustString(m.name, "module name") }

func (m *Base) Prefix() string { return str.MustPrefix(m.prefix) }

func (m *Base) Middlewares() []func(http.Handler) http.Handler { return m.mw }
