// Package module is the contract api modules satisfy and the port lookup between them
package module

import (
	"fmt"
	"reflect"

	phttp "grantdir/internal/platform/net/http"
)

// Module is one mountable slice of the api
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	// Ports is what the module offers other modules, nil when it offers nothing
	Ports() any
}

// PortsOf finds a T in m.Ports(), either the value itself or an exported struct field
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for composition time, a missing port is a wiring bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s: no %T port", m.Name(), (*T)(nil)))
	}
	return v
}
