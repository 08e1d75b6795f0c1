package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/json"
	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/observability"
	"github.com/ajitpratap0/strata/pkg/source"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what the subcommands share once flags are parsed.
type app struct {
	v        *viper.Viper
	log      *zap.Logger
	shutdown func(context.Context) error
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	a := &app{v: v}

	root := &cobra.Command{
		Use:   "strata",
		Short: "strata - hierarchical configuration loader",
		Long: `strata loads a base configuration document and an optional profile overlay,
flattens them into dotted keys and resolves ${NAME:DEFAULT} placeholders.

Every flag can also be set through the environment with the STRATA_ prefix,
e.g. STRATA_PROFILE=local or STRATA_SOURCE=s3.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("profile", "", "profile overlay to apply (application-{profile}.yaml)")
	flags.String("source", "dir", "document source: dir, s3 or gcs")
	flags.String("dir", ".", "directory for the dir source")
	flags.String("bucket", "", "bucket for the s3 and gcs sources")
	flags.String("prefix", "", "object key prefix for the s3 and gcs sources")
	flags.String("region", "", "AWS region for the s3 source")
	flags.String("endpoint", "", "S3-compatible endpoint URL")
	flags.Bool("path-style", false, "use path-style S3 addressing")
	flags.String("credentials-file", "", "GCP credentials file for the gcs source")
	flags.StringSlice("set", nil, "property override NAME=VALUE, consulted before the environment (repeatable)")
	flags.StringSlice("env-file", nil, "dotenv file with property overrides (repeatable)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("trace", false, "export OpenTelemetry spans to stderr")

	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	root.AddCommand(
		a.showCommand(),
		a.getCommand(),
		a.demoCommand(),
		versionCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logCfg, err := logger.ConfigFromEnv()
	if err != nil {
		return err
	}
	if lvl := a.v.GetString("log-level"); lvl != "" {
		logCfg.Level = lvl
	}
	if err := logger.Init(logCfg); err != nil {
		return err
	}
	a.log = logger.Named("cli")

	if a.v.GetBool("trace") {
		shutdown, err := observability.InitTracing(cmd.Context(),
			observability.DefaultTracingConfig("strata", version))
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.log.Warn("failed to flush traces", zap.Error(err))
		}
	}
	_ = logger.Sync()
	return nil
}

func (a *app) source(ctx context.Context) (source.Source, error) {
	switch kind := a.v.GetString("source"); kind {
	case "dir", "":
		return source.Dir(a.v.GetString("dir")), nil
	case "s3":
		return source.NewS3(ctx, source.S3Options{
			Bucket:       a.v.GetString("bucket"),
			Prefix:       a.v.GetString("prefix"),
			Region:       a.v.GetString("region"),
			Endpoint:     a.v.GetString("endpoint"),
			UsePathStyle: a.v.GetBool("path-style"),
		})
	case "gcs":
		return source.NewGCS(ctx, source.GCSOptions{
			Bucket:          a.v.GetString("bucket"),
			Prefix:          a.v.GetString("prefix"),
			CredentialsFile: a.v.GetString("credentials-file"),
		})
	default:
		return nil, fmt.Errorf("unknown source %q", kind)
	}
}

// properties merges --env-file documents and --set pairs, later wins.
func (a *app) properties() (config.PropertySource, error) {
	props := config.NewProperties()

	if files := a.v.GetStringSlice("env-file"); len(files) > 0 {
		fromFiles, err := config.DotenvSource(files...)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		for k, val := range fromFiles {
			props.Set(k, val)
		}
	}

	for _, pair := range a.v.GetStringSlice("set") {
		name, val, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, want NAME=VALUE", pair)
		}
		props.Set(name, val)
	}
	return props, nil
}

func (a *app) load(ctx context.Context, name string) (*config.Store, error) {
	src, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	props, err := a.properties()
	if err != nil {
		return nil, err
	}

	return config.Load(ctx, name,
		config.WithSource(src),
		config.WithProfile(a.v.GetString("profile")),
		config.WithProperties(props),
		config.WithLogger(logger.With(zap.String("document", name)).Named("config")))
}

func (a *app) showCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show DOCUMENT",
		Short: "Print the resolved configuration",
		Long: `Load DOCUMENT (plus the profile overlay) and print every resolved key.

Example:
  strata show application.yaml --profile local --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeStore(cmd.OutOrStdout(), store, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "flat", "output format: flat, yaml or json")
	return cmd
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DOCUMENT KEY",
		Short: "Print a single resolved key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			v, ok := store.Lookup(args[1])
			if !ok {
				return fmt.Errorf("key %q not found", args[1])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			return err
		},
	}
}

func (a *app) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Bind the embedded sample documents three ways",
		Long: `Load the embedded application.yaml and bind it onto AppConfig:
with no profile, with the "local" profile, and with a DB_URL property override.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgs, err := runDemo(cmd.Context(), logger.Named("demo"), nil)
			if err != nil {
				return err
			}
			for _, c := range cfgs {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "strata v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func writeStore(w io.Writer, store *config.Store, format string) error {
	switch format {
	case "flat", "":
		for _, k := range store.Keys() {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, formatValue(store.Get(k))); err != nil {
				return err
			}
		}
		return nil
	case "json":
		// encode fully before writing so a failure leaves no partial output
		buf := json.GetBuffer()
		defer json.PutBuffer(buf)
		if err := json.MarshalToWriter(buf, store.Map()); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(store.Map()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
