package config

import "time"

// Kind is the target type of a schema field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindInt64
	KindFloat64
	KindBool
	KindDuration
	KindComposite
)

var kindNames = [...]string{
	KindString:    "string",
	KindInt:       "int",
	KindInt64:     "int64",
	KindFloat64:   "float64",
	KindBool:      "bool",
	KindDuration:  "duration",
	KindComposite: "composite",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// FieldOption customizes a field declaration.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	def        any
	hasDefault bool
}

// Default supplies a value used when the store has no non-nil value for the
// field. It goes through the same coercion as store values, so Default("30")
// and Default(30) are equivalent for an int field.
func Default(v any) FieldOption {
	return func(o *fieldOptions) {
		o.def = v
		o.hasDefault = true
	}
}

// field is one row of a schema's descriptor table.
type field[T any] struct {
	name string
	kind Kind
	opts fieldOptions
	// set assigns an already coerced scalar.
	set func(dst *T, v any)
	// bind populates a composite field rooted at key.
	bind func(store *Store, dst *T, key string) error
}

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name       string
	Kind       Kind
	HasDefault bool
	Fields     []FieldInfo
}

// Schema declares how flat keys bind onto a *T. Fields are bound in
// declaration order. Build it once and reuse it; a Schema must not be
// modified while a bind is running.
//
//	var dbSchema = config.NewSchema("DatabaseConfig", func() *DatabaseConfig { return &DatabaseConfig{} }).
//		String("url", func(c *DatabaseConfig, v string) { c.URL = v })
//
//	var appSchema = config.Nested(
//		config.NewSchema("AppConfig", func() *AppConfig { return &AppConfig{Timeout: 10} }).
//			WithPrefix("app").
//			String("name", func(c *AppConfig, v string) { c.Name = v }).
//			Int("timeout", func(c *AppConfig, v int) { c.Timeout = v }),
//		"database", dbSchema, func(c *AppConfig, db *DatabaseConfig) { c.Database = db })
type Schema[T any] struct {
	name     string
	prefix   string
	ctor     func() *T
	fields   []field[T]
	describe []FieldInfo
}

// NewSchema starts a schema. ctor returns a fresh instance carrying any
// field-level defaults.
func NewSchema[T any](name string, ctor func() *T) *Schema[T] {
	return &Schema[T]{name: name, ctor: ctor}
}

// WithPrefix sets the key prefix used by Bind. It is ignored when the schema
// is bound as a nested field.
func (s *Schema[T]) WithPrefix(prefix string) *Schema[T] {
	s.prefix = prefix
	return s
}

// Name returns the schema name.
func (s *Schema[T]) Name() string { return s.name }

// Prefix returns the declared prefix.
func (s *Schema[T]) Prefix() string { return s.prefix }

// Fields describes the declared fields in order.
func (s *Schema[T]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.describe))
	copy(out, s.describe)
	return out
}

func (s *Schema[T]) scalar(name string, kind Kind, set func(*T, any), opts []FieldOption) *Schema[T] {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	s.fields = append(s.fields, field[T]{name: name, kind: kind, opts: o, set: set})
	s.describe = append(s.describe, FieldInfo{Name: name, Kind: kind, HasDefault: o.hasDefault})
	return s
}

// String declares a string field.
func (s *Schema[T]) String(name string, set func(*T, string), opts ...FieldOption) *Schema[T] {
	return s.scalar(name, KindString, func(dst *T, v any) { set(dst, v.(string)) }, opts)
}

// Int declares a platform-sized int field.
func (s *Schema[T]) Int(name string, set func(*T, int), opts ...FieldOption) *Schema[T] {
	return s.scalar(name, KindInt, func(dst *T, v any) { set(dst, v.(int)) }, opts)
}

// Int64 declares an int64 field.
func (s *Schema[T]) Int64(name string, set func(*T, int64), opts ...FieldOption) *Schema[T] {
	return s.scalar(name, KindInt64, func(dst *T, v any) { set(dst, v.(int64)) }, opts)
}

// Float64 declares a float64 field.
func (s *Schema[T]) Float64(name string, set func(*T, float64), opts ...FieldOption) *Schema[T] {
	return s.scalar(name, KindFloat64, func(dst *T, v any) { set(dst, v.(float64)) }, opts)
}

// Bool declares a bool field. Only "true" and "false" are accepted.
func (s *Schema[T]) Bool(name string, set func(*T, bool), opts ...FieldOption) *Schema[T] {
	return s.scalar(name, KindBool, func(dst *T, v any) { set(dst, v.(bool)) }, opts)
}

// Duration declares a time.Duration field parsed with time.ParseDuration.
func (s *Schema[T]) Duration(name string, set func(*T, time.Duration), opts ...FieldOption) *Schema[T] {
	return s.scalar(name, KindDuration, func(dst *T, v any) { set(dst, v.(time.Duration)) }, opts)
}

// Nested declares a composite field on parent bound from keys under name.
// The nested instance is always constructed and assigned, even when no key
// under name exists.
func Nested[T, N any](parent *Schema[T], name string, nested *Schema[N], set func(*T, *N)) *Schema[T] {
	parent.fields = append(parent.fields, field[T]{
		name: name,
		kind: KindComposite,
		bind: func(store *Store, dst *T, key string) error {
			child, err := nested.construct()
			if err != nil {
				return err
			}
			if err := nested.bindFields(store, child, key); err != nil {
				return err
			}
			set(dst, child)
			return nil
		},
	})
	parent.describe = append(parent.describe, FieldInfo{Name: name, Kind: KindComposite, Fields: nested.Fields()})
	return parent
}
