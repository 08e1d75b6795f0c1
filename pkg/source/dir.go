package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir reads documents from a local directory. The empty Dir resolves names
// against the working directory.
type Dir string

// Name implements Source.
func (d Dir) Name() string {
	if d == "" {
		return "dir:."
	}
	return "dir:" + string(d)
}

// Read implements Source. The context is not consulted; local reads do not block
// on the network.
func (d Dir) Read(_ context.Context, name string) ([]byte, error) {
	path := filepath.Join(string(d), filepath.FromSlash(name))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notExist(d, name)
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, notExist(d, name)
	}

	return readAll(f)
}
