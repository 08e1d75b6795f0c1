package config

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/metrics"
)

// placeholderPattern matches a whole value of the form ${NAME} or
// ${NAME:DEFAULT}. The default may not be empty and neither part may
// contain '}'.
var placeholderPattern = regexp.MustCompile(`^\$\{([^:}]+)(?::([^}]+))?\}$`)

// Where a placeholder value came from.
const (
	ResolvedFromProperty    = "property"
	ResolvedFromEnvironment = "environment"
	ResolvedFromDefault     = "default"
	Unresolved              = "unresolved"
)

// Resolver substitutes ${NAME:DEFAULT} placeholders. Overrides are consulted
// before the environment, then the inline default; with none of them the
// value becomes nil.
type Resolver struct {
	overrides   PropertySource
	environment PropertySource
	logger      *zap.Logger
}

// NewResolver creates a resolver. Nil sources are skipped.
func NewResolver(overrides, environment PropertySource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{overrides: overrides, environment: environment, logger: logger}
}

// Resolve replaces every string value in values that is entirely a
// placeholder. Other values, including strings that merely contain a
// placeholder, are left alone. Substituted values are not expanded again.
func (r *Resolver) Resolve(values map[string]any) {
	for key, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		resolved, from, matched := r.ResolveValue(s)
		if !matched {
			continue
		}
		values[key] = resolved
		metrics.PlaceholdersResolved.WithLabelValues(from).Inc()
		r.logger.Debug("placeholder resolved",
			zap.String("key", key),
			zap.String("source", from))
	}
}

// ResolveValue resolves a single value. matched is false when s is not a
// placeholder; resolved is then s unchanged. from names where the value came
// from.
func (r *Resolver) ResolveValue(s string) (resolved any, from string, matched bool) {
	m := placeholderPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return s, "", false
	}
	name := s[m[2]:m[3]]

	if r.overrides != nil {
		if v, ok := r.overrides.Lookup(name); ok {
			return v, ResolvedFromProperty, true
		}
	}
	if r.environment != nil {
		if v, ok := r.environment.Lookup(name); ok {
			return v, ResolvedFromEnvironment, true
		}
	}
	if m[4] >= 0 {
		return s[m[4]:m[5]], ResolvedFromDefault, true
	}
	return nil, Unresolved, true
}
