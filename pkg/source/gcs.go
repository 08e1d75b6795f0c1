package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS reads documents stored as objects under a prefix in a GCS bucket.
type GCS struct {
	bucket string
	prefix string
	open   func(ctx context.Context, object string) (io.ReadCloser, error)
	close  func() error
}

// GCSOptions configures NewGCS.
type GCSOptions struct {
	Bucket          string
	Prefix          string
	CredentialsFile string
}

// NewGCS opens a storage client. Application default credentials are used
// unless CredentialsFile is set. Close releases the client.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	if opts.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	bucket := client.Bucket(opts.Bucket)
	return &GCS{
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		open: func(ctx context.Context, object string) (io.ReadCloser, error) {
			return bucket.Object(object).NewReader(ctx)
		},
		close: client.Close,
	}, nil
}

// Name implements Source.
func (g *GCS) Name() string {
	return "gs://" + path.Join(g.bucket, g.prefix)
}

// Read implements Source.
func (g *GCS) Read(ctx context.Context, name string) ([]byte, error) {
	object := path.Join(g.prefix, name)

	rc, err := g.open(ctx, object)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, notExist(g, name)
		}
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", g.bucket, object, err)
	}

	return readAll(rc)
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	if g.close == nil {
		return nil
	}
	return g.close()
}
