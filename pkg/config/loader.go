package config

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/compression"
	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/observability"
	"github.com/ajitpratap0/strata/pkg/source"
	"github.com/ajitpratap0/strata/pkg/strataerrors"
)

// Loader reads a base document and an optional profile overlay into a Store.
// A Loader is cheap to build and holds no state between loads.
type Loader struct {
	source      source.Source
	profile     string
	logger      *zap.Logger
	decoders    map[string]Decoder
	properties  PropertySource
	environment PropertySource
}

// Option configures a Loader.
type Option func(*Loader)

// WithProfile selects the profile overlay. Surrounding whitespace is
// trimmed; a blank profile means none.
func WithProfile(profile string) Option {
	return func(l *Loader) { l.profile = strings.TrimSpace(profile) }
}

// WithLogger sets the logger. Defaults to the global logger named "config".
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithSource sets where documents are read from. Defaults to the working
// directory.
func WithSource(src source.Source) Option {
	return func(l *Loader) {
		if src != nil {
			l.source = src
		}
	}
}

// WithDecoder registers d for documents whose name ends in ext, e.g. ".toml".
func WithDecoder(ext string, d Decoder) Option {
	return func(l *Loader) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		l.decoders[strings.ToLower(ext)] = d
	}
}

// WithProperties sets the override source consulted before the environment.
// Defaults to SystemProperties.
func WithProperties(p PropertySource) Option {
	return func(l *Loader) { l.properties = p }
}

// WithEnvironment replaces the environment snapshot taken at load time.
func WithEnvironment(p PropertySource) Option {
	return func(l *Loader) { l.environment = p }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		source:     source.Dir(""),
		decoders:   defaultDecoders(),
		properties: SystemProperties,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("config")
	}
	return l
}

// Load is shorthand for NewLoader(opts...).Load(ctx, name).
func Load(ctx context.Context, name string, opts ...Option) (*Store, error) {
	return NewLoader(opts...).Load(ctx, name)
}

// Load reads name as the base document, overlays the profile document when a
// profile is set, resolves placeholders and returns the frozen Store.
//
// A missing or empty base document fails with ErrorTypeConfigNotFound. A
// missing profile document is logged and skipped.
func (l *Loader) Load(ctx context.Context, name string) (*Store, error) {
	timer := metrics.NewTimer("load")
	ctx, span := observability.StartSpan(ctx, "config.Load")
	defer span.End()
	span.SetAttribute("config.name", name)
	span.SetAttribute("config.profile", l.profile)
	span.SetAttribute("config.source", l.source.Name())

	store, err := l.load(ctx, name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("config.keys", store.Len())
	metrics.LoadDuration.Observe(timer.Stop().Seconds())
	return store, nil
}

func (l *Loader) load(ctx context.Context, name string) (*Store, error) {
	base, err := l.readDocument(ctx, name)
	if err != nil {
		if errors.Is(err, source.ErrNotExist) {
			metrics.DocumentsLoaded.WithLabelValues(metrics.RoleBase, metrics.OutcomeMissing).Inc()
			return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeConfigNotFound,
				fmt.Sprintf("config file not found: %s", name)).
				WithDetail("document", name)
		}
		metrics.DocumentsLoaded.WithLabelValues(metrics.RoleBase, metrics.OutcomeError).Inc()
		return nil, err
	}
	if len(base) == 0 {
		metrics.DocumentsLoaded.WithLabelValues(metrics.RoleBase, metrics.OutcomeEmpty).Inc()
		return nil, strataerrors.New(strataerrors.ErrorTypeConfigNotFound,
			fmt.Sprintf("config file is empty: %s", name)).
			WithDetail("document", name)
	}
	metrics.DocumentsLoaded.WithLabelValues(metrics.RoleBase, metrics.OutcomeLoaded).Inc()

	values := make(map[string]any)
	flatten("", base, values)
	l.logger.Info("loaded base config",
		zap.String("document", name),
		zap.String("source", l.source.Name()),
		zap.Int("keys", len(values)))

	if l.profile != "" {
		if err := l.overlayProfile(ctx, name, values); err != nil {
			return nil, err
		}
	}

	env := l.environment
	if env == nil {
		env = Environment()
	}
	NewResolver(l.properties, env, l.logger).Resolve(values)

	return freeze(values), nil
}

func (l *Loader) overlayProfile(ctx context.Context, name string, values map[string]any) error {
	profileName := ProfileDocumentName(name, l.profile)

	overlay, err := l.readDocument(ctx, profileName)
	if err != nil {
		if errors.Is(err, source.ErrNotExist) {
			metrics.DocumentsLoaded.WithLabelValues(metrics.RoleProfile, metrics.OutcomeMissing).Inc()
			l.logger.Info("profile config not found, using base only",
				zap.String("profile", l.profile),
				zap.String("document", profileName))
			return nil
		}
		metrics.DocumentsLoaded.WithLabelValues(metrics.RoleProfile, metrics.OutcomeError).Inc()
		return err
	}
	if len(overlay) == 0 {
		metrics.DocumentsLoaded.WithLabelValues(metrics.RoleProfile, metrics.OutcomeEmpty).Inc()
		return nil
	}

	metrics.DocumentsLoaded.WithLabelValues(metrics.RoleProfile, metrics.OutcomeLoaded).Inc()
	flatten("", overlay, values)
	l.logger.Info("loaded profile config",
		zap.String("profile", l.profile),
		zap.String("document", profileName))
	return nil
}

// readDocument fetches, decompresses and decodes name. Absence is returned
// as-is so callers can test it with errors.Is(err, source.ErrNotExist).
func (l *Loader) readDocument(ctx context.Context, name string) (Mapping, error) {
	data, err := l.source.Read(ctx, name)
	if err != nil {
		if errors.Is(err, source.ErrNotExist) {
			return nil, err
		}
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeSource,
			fmt.Sprintf("failed to read %s", name)).
			WithDetail("document", name).
			WithDetail("source", l.source.Name())
	}

	alg, plainName := compression.FromName(name)
	data, err = compression.Decompress(alg, data)
	if err != nil {
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeDocumentParse,
			fmt.Sprintf("failed to decompress %s", name)).
			WithDetail("document", name)
	}

	dec, ok := l.decoders[documentExt(plainName)]
	if !ok {
		dec = YAML
	}

	doc, err := dec.Decode(data)
	if err != nil {
		return nil, strataerrors.Wrap(err, strataerrors.ErrorTypeDocumentParse,
			fmt.Sprintf("failed to parse %s", name)).
			WithDetail("document", name)
	}
	return doc, nil
}

// ProfileDocumentName derives the overlay name by inserting "-profile" before
// the extension, ignoring a trailing compression suffix:
//
//	application.yaml     -> application-local.yaml
//	application.yaml.gz  -> application-local.yaml.gz
//	application          -> application-local
func ProfileDocumentName(name, profile string) string {
	alg, plain := compression.FromName(name)

	ext := path.Ext(plain)
	stem := strings.TrimSuffix(plain, ext)
	if stem == "" || strings.HasSuffix(stem, "/") {
		// dotfile such as ".env": treat the whole base name as the stem
		stem, ext = plain, ""
	}
	return stem + "-" + profile + ext + alg.Extension()
}
