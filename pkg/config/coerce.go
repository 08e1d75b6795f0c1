package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/ajitpratap0/strata/pkg/strataerrors"
)

// stringify renders a store scalar the way it would be written in a
// document.
func stringify(raw any) string {
	if s, err := cast.ToStringE(raw); err == nil {
		return s
	}
	return fmt.Sprint(raw)
}

// coerce converts raw to the Go type of kind. key is only used in errors.
// Integer kinds reject float values even when they are whole, so 1e3 or
// 1000.0 in a document never binds to an int field.
func coerce(key string, raw any, kind Kind) (any, error) {
	s := stringify(raw)

	if kind == KindInt || kind == KindInt64 {
		switch raw.(type) {
		case float32, float64:
			return nil, coercionError(key, s, kind, "float value for integer field")
		}
	}

	var (
		v   any
		err error
	)
	switch kind {
	case KindString:
		return s, nil
	case KindInt:
		var n int64
		n, err = strconv.ParseInt(s, 10, strconv.IntSize)
		v = int(n)
	case KindInt64:
		v, err = strconv.ParseInt(s, 10, 64)
	case KindFloat64:
		v, err = strconv.ParseFloat(s, 64)
	case KindBool:
		switch s {
		case "true":
			v = true
		case "false":
			v = false
		default:
			err = strconv.ErrSyntax
		}
	case KindDuration:
		v, err = time.ParseDuration(s)
	default:
		return nil, strataerrors.Newf(strataerrors.ErrorTypeInternal, "field %s has no scalar kind", key)
	}

	if err != nil {
		return nil, coercionError(key, s, kind, err.Error())
	}
	return v, nil
}

func coercionError(key, value string, kind Kind, reason string) error {
	return strataerrors.New(strataerrors.ErrorTypeTypeCoercion,
		fmt.Sprintf("cannot convert %q at %s to %s", value, key, kind)).
		WithDetail("key", key).
		WithDetail("value", value).
		WithDetail("kind", kind.String()).
		WithDetail("reason", reason)
}
