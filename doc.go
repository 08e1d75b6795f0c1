// Package strata is a hierarchical configuration loader.
//
// It reads a base document and an optional profile overlay, flattens both
// into dotted keys, lets the profile win on conflicts, resolves
// ${NAME:DEFAULT} placeholders against property overrides and the
// environment, and binds the result onto typed, nested Go structs.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/ajitpratap0/strata/pkg/config"
//	    "github.com/ajitpratap0/strata/pkg/source"
//	)
//
//	store, err := config.Load(context.Background(), "application.yaml",
//	    config.WithSource(source.Dir("/etc/myapp")),
//	    config.WithProfile(os.Getenv("APP_PROFILE")))
//	if err != nil {
//	    return err
//	}
//
//	cfg, err := config.Bind(store, appSchema)
//
// # Key Packages
//
//	pkg/config        - Loading, overlay merge, placeholders, Store and binding
//	pkg/source        - Document sources: directory, io/fs (embed), S3, GCS
//	pkg/compression   - Transparent .gz/.zst/.lz4/.sz document decompression
//	pkg/strataerrors  - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus metrics
//	pkg/observability - OpenTelemetry tracing
//
// # Merge Rules
//
//   - The base document is required; a missing or empty base is an error.
//   - The profile document is application-{profile}.yaml for
//     application.yaml. When absent it is skipped with an info log.
//   - Profile keys overwrite base keys; all other keys from both survive.
//   - Lists are opaque values and are replaced, never merged element-wise.
//
// # Command Line
//
//	strata show application.yaml --profile local --format yaml
//	strata get application.yaml app.database.url --set DB_URL=jdbc:override
//	strata demo
//
// Every flag can also be supplied as a STRATA_* environment variable.
package strata
