package bind

import (
	"errors"
	"net/http"
	"net/url"
	"sync"

	perr "grantdir/internal/platform/errors"

	"github.com/gorilla/schema"
)

// QueryOptions controls query string parsing
type QueryOptions struct {
	// Aliases maps an accepted alternate key to its canonical key; the canonical key wins when both are set
	Aliases map[string]string
}

var (
	qOnce sync.Once
	qDec  *schema.Decoder
)

func queryDecoder() *schema.Decoder {
	qOnce.Do(func() {
		d := schema.NewDecoder()
		d.IgnoreUnknownKeys(true)
		d.ZeroEmpty(true)
		qDec = d
	})
	return qDec
}

// ParseQuery decodes the request query string into T using schema tags, then validates it
func ParseQuery[T any](r *http.Request, opts ...QueryOptions) (T, error) {
	return ParseValues[T](r.URL.Query(), opts...)
}

// ParseValues is ParseQuery over already parsed values
func ParseValues[T any](values url.Values, opts ...QueryOptions) (T, error) {
	var zero, dst T
	vals := url.Values{}
	for k, v := range values {
		vals[k] = v
	}
	if len(opts) > 0 {
		for alt, canon := range opts[0].Aliases {
			if vals.Get(canon) == "" && vals.Get(alt) != "" {
				vals[canon] = vals[alt]
			}
			delete(vals, alt)
		}
	}

	if err := queryDecoder().Decode(&dst, vals); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			for field, ferr := range multi {
				var conv schema.ConversionError
				if errors.As(ferr, &conv) {
					return zero, perr.WithField(perr.Validationf("%s has an invalid value", field), field)
				}
				return zero, perr.WithField(perr.Validationf("%s: %v", field, ferr), field)
			}
		}
		return zero, perr.Validationf("invalid query: %v", err)
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}
