package source

import (
	"context"
	"errors"
	"io/fs"
)

// FS reads documents from an io/fs tree such as an embed.FS.
type FS struct {
	fsys  fs.FS
	label string
}

// FromFS wraps fsys. The label only appears in Name.
func FromFS(fsys fs.FS, label string) *FS {
	if label == "" {
		label = "embedded"
	}
	return &FS{fsys: fsys, label: label}
}

// Name implements Source.
func (s *FS) Name() string { return "fs:" + s.label }

// Read implements Source.
func (s *FS) Read(_ context.Context, name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, notExist(s, name)
		}
		return nil, err
	}
	return data, nil
}
