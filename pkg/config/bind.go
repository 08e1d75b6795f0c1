package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/strataerrors"
)

// Bind creates a new *T from schema's constructor and populates it from keys
// under the schema prefix. On error it returns nil; no partially bound value
// escapes.
func Bind[T any](store *Store, schema *Schema[T]) (*T, error) {
	dst, err := schema.construct()
	if err == nil {
		err = schema.bindFields(store, dst, schema.prefix)
	}
	if err != nil {
		metrics.Binds.WithLabelValues(schema.name, metrics.OutcomeError).Inc()
		return nil, bindError(schema.name, err)
	}

	metrics.Binds.WithLabelValues(schema.name, metrics.OutcomeSuccess).Inc()
	logger.Get().Named("config").Debug("bound properties",
		zap.String("schema", schema.name),
		zap.String("prefix", schema.prefix))
	return dst, nil
}

// BindInto populates an existing value from keys under prefix, which replaces
// the schema's declared prefix. Fields without a value or default keep what
// dst already holds. dst is only written when every field binds.
func BindInto[T any](store *Store, schema *Schema[T], dst *T, prefix string) error {
	if dst == nil {
		err := strataerrors.New(strataerrors.ErrorTypeBindConstruction, "bind target is nil").
			WithDetail("schema", schema.name)
		metrics.Binds.WithLabelValues(schema.name, metrics.OutcomeError).Inc()
		return bindError(schema.name, err)
	}

	tmp := *dst
	if err := schema.bindFields(store, &tmp, prefix); err != nil {
		metrics.Binds.WithLabelValues(schema.name, metrics.OutcomeError).Inc()
		return bindError(schema.name, err)
	}

	*dst = tmp
	metrics.Binds.WithLabelValues(schema.name, metrics.OutcomeSuccess).Inc()
	return nil
}

// bindError wraps err for schemaName and lifts the failing field's details
// onto the wrapper.
func bindError(schemaName string, err error) error {
	wrapped := strataerrors.Wrap(err, strataerrors.TypeOf(err),
		fmt.Sprintf("failed to bind properties to %s", schemaName)).
		WithDetail("schema", schemaName)

	var inner *strataerrors.Error
	if errors.As(err, &inner) {
		for _, k := range []string{"key", "value", "kind"} {
			if v, ok := inner.Detail(k); ok {
				wrapped.WithDetail(k, v)
			}
		}
	}
	return wrapped
}

func (s *Schema[T]) construct() (*T, error) {
	if s.ctor == nil {
		return nil, strataerrors.New(strataerrors.ErrorTypeBindConstruction,
			fmt.Sprintf("schema %s has no constructor", s.name)).
			WithDetail("schema", s.name)
	}
	v := s.ctor()
	if v == nil {
		return nil, strataerrors.New(strataerrors.ErrorTypeBindConstruction,
			fmt.Sprintf("constructor for %s returned nil", s.name)).
			WithDetail("schema", s.name)
	}
	return v, nil
}

func (s *Schema[T]) bindFields(store *Store, dst *T, prefix string) error {
	for _, f := range s.fields {
		key := f.name
		if prefix != "" {
			key = prefix + "." + f.name
		}

		if f.kind == KindComposite {
			if err := f.bind(store, dst, key); err != nil {
				return err
			}
			continue
		}

		raw := store.Get(key)
		if raw == nil {
			if !f.opts.hasDefault {
				continue
			}
			raw = f.opts.def
		}

		v, err := coerce(key, raw, f.kind)
		if err != nil {
			return err
		}
		f.set(dst, v)
	}
	return nil
}
