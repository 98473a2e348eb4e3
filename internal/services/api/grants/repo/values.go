package repo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "grantdir/internal/platform/time"

	"github.com/google/uuid"
)

// Text renders a scanned column value as display text
// nil and unsupported values become empty
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case [16]byte:
		return uuid.UUID(x).String()
	case uuid.UUID:
		return x.String()
	case json.Number:
		return x.String()
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil || dv == nil {
			return ""
		}
		return Text(dv)
	case fmt.Stringer:
		return x.String()
	}
	return ""
}

// Time reads a timestamp or date column, nil when absent or unparseable
func Time(v any) *time.Time {
	switch x := v.(type) {
	case time.Time:
		return ptime.Ptr(x.UTC())
	case *time.Time:
		if x == nil {
			return nil
		}
		return Time(*x)
	case string:
		if t, ok := ptime.Parse(x); ok {
			return Time(t)
		}
	case driver.Valuer:
		dv, err := x.Value()
		if err == nil {
			return Time(dv)
		}
	}
	return nil
}
