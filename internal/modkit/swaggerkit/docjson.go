package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	perr "grantdir/internal/platform/errors"
	phttp "grantdir/internal/platform/net/http"
)

//go:embed openapi.json
var openapiDoc []byte

// docReader returns the raw document, tests swap it
var docReader = func() []byte { return openapiDoc }

// SpecMutator edits the parsed document before it is served
type SpecMutator func(spec map[string]any)

var (
	mu       sync.RWMutex
	mutators []SpecMutator
)

// Register adds m to every served document
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Options tune the served document
type Options struct {
	// TitleSuffix is appended to info.title, e.g. "(staging)"
	TitleSuffix string
}

// canonical listing pages are mounted at the site root, everything else under /api
func apiPath(p string) bool {
	for _, seg := range []string{"/federal/", "/state/{code}/{slug}", "/local/"} {
		if strings.Contains(p, seg) {
			return false
		}
	}
	return true
}

// defaultErrors are added to operations that do not document them
var defaultErrors = map[string]struct {
	desc string
	err  error
}{
	"400": {"Bad Request", perr.WithField(perr.Validationf("jurisdiction must be one of federal state local"), "jurisdiction")},
	"429": {"Too Many Requests", perr.TooManyRequestsf("rate limit exceeded")},
	"500": {"Internal Server Error", perr.PanicErrf("internal error")},
}

func docHandler(o Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal(docReader(), &spec); err != nil {
			phttp.WriteError(w, r, perr.Wrapf(err, perr.ErrorCodeUnknown, "openapi document"))
			return
		}
		prepare(spec, o)

		mu.RLock()
		for _, m := range mutators {
			m(spec)
		}
		mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// prepare roots api paths under /api and fills in the shared error responses
func prepare(spec map[string]any, o Options) {
	if o.TitleSuffix != "" {
		info := child(spec, "info")
		title, _ := info["title"].(string)
		info["title"] = strings.TrimSpace(title + " " + o.TitleSuffix)
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = map[string]any{"$ref": "#/components/schemas/Envelope"}
	}

	paths, _ := spec["paths"].(map[string]any)
	rooted := make(map[string]any, len(paths))
	for p, node := range paths {
		if apiPath(p) {
			p = "/api" + p
		}
		rooted[p] = node
		ops, _ := node.(map[string]any)
		for _, op := range ops {
			if op, ok := op.(map[string]any); ok {
				addErrors(child(op, "responses"))
			}
		}
	}
	spec["paths"] = rooted
}

func addErrors(responses map[string]any) {
	for status, d := range defaultErrors {
		if _, ok := responses[status]; ok {
			continue
		}
		w := perr.WireFrom(d.err)
		code := perr.HTTPStatus(d.err)
		example := map[string]any{"status_code": code, "status": http.StatusText(code), "code": w.Code, "error": w.Message}
		if w.Field != "" {
			example["field"] = w.Field
		}
		responses[status] = map[string]any{
			"description": d.desc,
			"content": map[string]any{"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			}},
		}
	}
}

// child returns m[key] as a map, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
