// Package testutil provides testing utilities for strata
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/strata/pkg/compression"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// WriteDocument writes content to dir/name, creating parent directories, and
// returns the full path. A name with a compression suffix is compressed
// accordingly.
func WriteDocument(t *testing.T, dir, name, content string) string {
	t.Helper()

	data := []byte(content)
	if alg, _ := compression.FromName(name); alg != compression.None {
		var err error
		data, err = compression.Compress(alg, data)
		require.NoError(t, err, "compress %s", name)
	}

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
