package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/strataerrors"
)

type databaseConfig struct {
	URL      string
	User     string
	PoolSize int
}

type appConfig struct {
	Name     string
	Timeout  int
	Ratio    float64
	Debug    bool
	MaxBytes int64
	Interval time.Duration
	Database *databaseConfig
}

func dbSchema() *Schema[databaseConfig] {
	return NewSchema("DatabaseConfig", func() *databaseConfig { return &databaseConfig{PoolSize: 4} }).
		String("url", func(c *databaseConfig, v string) { c.URL = v }).
		String("user", func(c *databaseConfig, v string) { c.User = v }, Default("sa")).
		Int("pool-size", func(c *databaseConfig, v int) { c.PoolSize = v })
}

func appSchema() *Schema[appConfig] {
	s := NewSchema("AppConfig", func() *appConfig { return &appConfig{Timeout: 10} }).
		WithPrefix("app").
		String("name", func(c *appConfig, v string) { c.Name = v }).
		Int("timeout", func(c *appConfig, v int) { c.Timeout = v }).
		Float64("ratio", func(c *appConfig, v float64) { c.Ratio = v }).
		Bool("debug", func(c *appConfig, v bool) { c.Debug = v }).
		Int64("max-bytes", func(c *appConfig, v int64) { c.MaxBytes = v }).
		Duration("interval", func(c *appConfig, v time.Duration) { c.Interval = v }, Default("1s"))
	return Nested(s, "database", dbSchema(), func(c *appConfig, db *databaseConfig) { c.Database = db })
}

func TestBind(t *testing.T) {
	store := NewStore(map[string]any{
		"app.name":         "x",
		"app.timeout":      "30",
		"app.database.url": "jdbc:y",
		"other.name":       "ignored",
	})

	cfg, err := Bind(store, appSchema())
	require.NoError(t, err)

	assert.Equal(t, "x", cfg.Name)
	assert.Equal(t, 30, cfg.Timeout)
	require.NotNil(t, cfg.Database)
	assert.Equal(t, "jdbc:y", cfg.Database.URL)
	assert.Equal(t, "sa", cfg.Database.User)
	assert.Equal(t, 4, cfg.Database.PoolSize)
	assert.Equal(t, time.Second, cfg.Interval)
}

func TestBindTypedScalars(t *testing.T) {
	store := NewStore(map[string]any{
		"app.timeout":   30,
		"app.ratio":     0.25,
		"app.debug":     true,
		"app.max-bytes": uint64(1 << 40),
		"app.interval":  "1m30s",
	})

	cfg, err := Bind(store, appSchema())
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, 0.25, cfg.Ratio)
	assert.True(t, cfg.Debug)
	assert.Equal(t, int64(1<<40), cfg.MaxBytes)
	assert.Equal(t, 90*time.Second, cfg.Interval)
}

func TestBindCompositeAlwaysInstantiated(t *testing.T) {
	cfg, err := Bind(NewStore(nil), appSchema())
	require.NoError(t, err)

	require.NotNil(t, cfg.Database)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Timeout)
}

func TestBindNilValueKeepsDefault(t *testing.T) {
	store := NewStore(map[string]any{"app.timeout": nil, "app.database.user": nil})

	cfg, err := Bind(store, appSchema())
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Timeout)
	assert.Equal(t, "sa", cfg.Database.User)
}

func TestBindCoercionFailure(t *testing.T) {
	store := NewStore(map[string]any{"app.name": "x", "app.timeout": "abc"})

	cfg, err := Bind(store, appSchema())
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, strataerrors.ErrTypeCoercion)
	assert.Equal(t, `type_coercion: failed to bind properties to AppConfig: type_coercion: cannot convert "abc" at app.timeout to int`, err.Error())

	var outer *strataerrors.Error
	require.True(t, errors.As(err, &outer))
	key, _ := outer.Detail("key")
	assert.Equal(t, "app.timeout", key)
	schema, _ := outer.Detail("schema")
	assert.Equal(t, "AppConfig", schema)

	var inner *strataerrors.Error
	require.True(t, errors.As(errors.Unwrap(err), &inner))
	key, _ = inner.Detail("key")
	assert.Equal(t, "app.timeout", key)
	kind, _ := inner.Detail("kind")
	assert.Equal(t, "int", kind)
}

func TestBindCoercionFailures(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"app.timeout", "1.5"},
		{"app.timeout", " 30"},
		{"app.timeout", "99999999999999999999"},
		{"app.ratio", "fast"},
		{"app.debug", "yes"},
		{"app.debug", "True"},
		{"app.debug", 1},
		{"app.interval", "30"},
		{"app.database.pool-size", "many"},
		{"app.timeout", 1000.0},
		{"app.timeout", 30.5},
		{"app.timeout", float32(8)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg, err := Bind(NewStore(map[string]any{tt.key: tt.value}), appSchema())
			assert.Nil(t, cfg)
			assert.True(t, strataerrors.IsType(err, strataerrors.ErrorTypeTypeCoercion), "%v", err)
		})
	}
}

func TestBindRejectsWholeFloatForInt(t *testing.T) {
	m, err := YAML.Decode([]byte("app:\n  name: x\n  timeout: 1000.0\n"))
	require.NoError(t, err)

	cfg, err := Bind(NewStore(Flatten(m)), appSchema())
	assert.Nil(t, cfg)
	require.ErrorIs(t, err, strataerrors.ErrTypeCoercion)
	assert.Contains(t, err.Error(), `cannot convert "1000" at app.timeout to int`)

	// the same literal is fine for a float field
	m, err = YAML.Decode([]byte("app:\n  ratio: 1000.0\n"))
	require.NoError(t, err)
	cfg, err = Bind(NewStore(Flatten(m)), appSchema())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, cfg.Ratio)
}

func TestBindDefaultIsCoerced(t *testing.T) {
	s := NewSchema("Bad", func() *appConfig { return &appConfig{} }).
		Int("timeout", func(c *appConfig, v int) { c.Timeout = v }, Default("soon"))

	_, err := Bind(NewStore(nil), s)
	assert.ErrorIs(t, err, strataerrors.ErrTypeCoercion)

	s = NewSchema("Good", func() *appConfig { return &appConfig{} }).
		Int("timeout", func(c *appConfig, v int) { c.Timeout = v }, Default(15))
	cfg, err := Bind(NewStore(nil), s)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Timeout)
}

func TestBindConstruction(t *testing.T) {
	_, err := Bind(NewStore(nil), NewSchema[appConfig]("NoCtor", nil))
	assert.ErrorIs(t, err, strataerrors.ErrBindConstruction)

	_, err = Bind(NewStore(nil), NewSchema("NilCtor", func() *appConfig { return nil }))
	assert.ErrorIs(t, err, strataerrors.ErrBindConstruction)

	nested := Nested(NewSchema("Parent", func() *appConfig { return &appConfig{} }),
		"database", NewSchema[databaseConfig]("Child", nil),
		func(c *appConfig, db *databaseConfig) { c.Database = db })
	_, err = Bind(NewStore(nil), nested)
	assert.ErrorIs(t, err, strataerrors.ErrBindConstruction)
}

func TestBindIntoIsAtomic(t *testing.T) {
	dst := &appConfig{Name: "orig", Timeout: 1}

	err := BindInto(NewStore(map[string]any{"svc.name": "new", "svc.timeout": "abc"}), appSchema(), dst, "svc")
	require.Error(t, err)
	assert.Equal(t, &appConfig{Name: "orig", Timeout: 1}, dst)

	err = BindInto(NewStore(map[string]any{"svc.name": "new"}), appSchema(), dst, "svc")
	require.NoError(t, err)
	assert.Equal(t, "new", dst.Name)
	assert.Equal(t, 1, dst.Timeout)
	assert.NotNil(t, dst.Database)

	assert.ErrorIs(t, BindInto(NewStore(nil), appSchema(), nil, ""), strataerrors.ErrBindConstruction)
}

func TestBindDoesNotTouchStore(t *testing.T) {
	store := NewStore(map[string]any{"app.name": "x"})
	_, err := Bind(store, appSchema())
	require.NoError(t, err)
	assert.Equal(t, []string{"app.name"}, store.Keys())
}

func TestSchemaFields(t *testing.T) {
	fields := appSchema().Fields()
	require.Len(t, fields, 7)
	assert.Equal(t, "interval", fields[5].Name)
	assert.True(t, fields[5].HasDefault)
	assert.Equal(t, KindComposite, fields[6].Kind)
	assert.Len(t, fields[6].Fields, 3)
	assert.Equal(t, "composite", KindComposite.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
