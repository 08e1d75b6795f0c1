package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/source"
)

//go:embed resources/*.yaml
var resources embed.FS

const demoDocument = "application.yaml"

// AppConfig is the demo bind target.
type AppConfig struct {
	Name     string
	Timeout  int
	Database *DatabaseConfig
}

// DatabaseConfig is nested under AppConfig.
type DatabaseConfig struct {
	URL      string
	User     string
	PoolSize int
}

func (c *AppConfig) String() string {
	db := "<nil>"
	if c.Database != nil {
		db = fmt.Sprintf("{url=%s user=%s poolSize=%d}", c.Database.URL, c.Database.User, c.Database.PoolSize)
	}
	return fmt.Sprintf("AppConfig{name=%s timeout=%d database=%s}", c.Name, c.Timeout, db)
}

var appConfigSchema = config.Nested(
	config.NewSchema("AppConfig", func() *AppConfig { return &AppConfig{} }).
		WithPrefix("app").
		String("name", func(c *AppConfig, v string) { c.Name = v }).
		Int("timeout", func(c *AppConfig, v int) { c.Timeout = v }),
	"database",
	config.NewSchema("DatabaseConfig", func() *DatabaseConfig { return &DatabaseConfig{PoolSize: 1} }).
		String("url", func(c *DatabaseConfig, v string) { c.URL = v }).
		String("user", func(c *DatabaseConfig, v string) { c.User = v }).
		Int("pool-size", func(c *DatabaseConfig, v int) { c.PoolSize = v }),
	func(c *AppConfig, db *DatabaseConfig) { c.Database = db },
)

func embeddedSource() source.Source {
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		panic(err)
	}
	return source.FromFS(sub, "resources")
}

// demoScenario is one load-and-bind run of the demo.
type demoScenario struct {
	label   string
	profile string
	props   config.PropertySource
}

func demoScenarios() []demoScenario {
	withDBURL := config.NewProperties()
	withDBURL.Set("DB_URL", "jdbc:env")

	return []demoScenario{
		{label: "Default config", props: config.NewProperties()},
		{label: "Local config", profile: "local", props: config.NewProperties()},
		{label: "With env", props: withDBURL},
	}
}

// runDemo loads the embedded documents three ways and logs the bound result.
func runDemo(ctx context.Context, log *zap.Logger, env config.PropertySource) ([]*AppConfig, error) {
	src := embeddedSource()

	var out []*AppConfig
	for _, sc := range demoScenarios() {
		store, err := config.Load(ctx, demoDocument,
			config.WithSource(src),
			config.WithProfile(sc.profile),
			config.WithProperties(sc.props),
			config.WithEnvironment(env),
			config.WithLogger(log))
		if err != nil {
			return nil, err
		}

		cfg, err := config.Bind(store, appConfigSchema)
		if err != nil {
			return nil, err
		}

		log.Info(sc.label, zap.Stringer("config", cfg))
		out = append(out, cfg)
	}
	return out, nil
}
