package testutil

import (
	"context"
	"os"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DocumentSuite provides a temp directory of configuration documents that is
// reset before every test.
type DocumentSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	dir    string
}

// SetupTest runs before each test in the suite
func (s *DocumentSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), time.Minute)

	dir, err := os.MkdirTemp("", "strata-test-*")
	require.NoError(s.T(), err)
	s.dir = dir
}

// TearDownTest runs after each test in the suite
func (s *DocumentSuite) TearDownTest() {
	s.cancel()
	if s.dir != "" {
		os.RemoveAll(s.dir)
	}
}

// Context returns the per-test context
func (s *DocumentSuite) Context() context.Context {
	return s.ctx
}

// Dir returns the document directory
func (s *DocumentSuite) Dir() string {
	return s.dir
}

// Write stores a document in Dir, compressing it when name has a
// compression suffix.
func (s *DocumentSuite) Write(name, content string) string {
	return WriteDocument(s.T(), s.dir, name, content)
}
