// Package source fetches the raw bytes of named configuration documents.
//
// A Source hides where documents live: a local directory, an io/fs tree
// (typically an embed.FS compiled into the binary), an S3 bucket or a GCS
// bucket. Names are slash-separated and relative to the source root.
package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
)

// ErrNotExist is reported, possibly wrapped, when a document is absent.
var ErrNotExist = fs.ErrNotExist

// Source reads whole documents by name.
type Source interface {
	// Name describes the source in logs, e.g. "dir:/etc/app" or "s3://bucket/prefix".
	Name() string
	// Read returns the full content of the named document. An absent
	// document yields an error for which errors.Is(err, ErrNotExist) holds.
	Read(ctx context.Context, name string) ([]byte, error)
}

func notExist(src Source, name string) error {
	return fmt.Errorf("%s: document %q: %w", src.Name(), name, ErrNotExist)
}

// readAll drains and closes rc.
func readAll(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}
