// Package config loads hierarchical configuration documents into a flat,
// immutable Store and binds that store onto typed structs.
//
// # Loading
//
// Load reads a required base document and, when a profile is set, an
// overlay document named by inserting "-{profile}" before the extension:
//
//	store, err := config.Load(ctx, "application.yaml",
//		config.WithProfile("local"),
//		config.WithSource(source.Dir("/etc/myapp")))
//
// Both documents are flattened into dotted keys (app.database.url) and the
// overlay's keys win. Lists are kept as opaque values. YAML and JSON are
// decoded out of the box; other formats can be added with WithDecoder.
// Documents ending in .gz, .zst, .lz4 or .sz are decompressed first.
//
// # Placeholders
//
// A value that is exactly ${NAME} or ${NAME:DEFAULT} is replaced once, at
// load time, by the first of:
//
//  1. the override source (SystemProperties unless WithProperties is used)
//  2. the process environment
//  3. DEFAULT
//
// and becomes nil when none applies. Placeholders embedded in longer strings
// are left untouched.
//
// # Binding
//
// Binding is driven by an explicit Schema rather than struct tags:
//
//	type AppConfig struct {
//		Name     string
//		Timeout  int
//		Database *DatabaseConfig
//	}
//
//	var dbSchema = config.NewSchema("DatabaseConfig", func() *DatabaseConfig { return &DatabaseConfig{} }).
//		String("url", func(c *DatabaseConfig, v string) { c.URL = v })
//
//	var appSchema = config.Nested(
//		config.NewSchema("AppConfig", func() *AppConfig { return &AppConfig{} }).
//			WithPrefix("app").
//			String("name", func(c *AppConfig, v string) { c.Name = v }).
//			Int("timeout", func(c *AppConfig, v int) { c.Timeout = v }),
//		"database", dbSchema, func(c *AppConfig, db *DatabaseConfig) { c.Database = db })
//
//	cfg, err := config.Bind(store, appSchema)
//
// A failed bind returns a *strataerrors.Error and never a partially
// populated value.
package config
