package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logger.Set(nil) })

	var out bytes.Buffer
	root := newRootCommand(viper.New())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDocs(t *testing.T) string {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "application.yaml", "app:\n  name: svc\n  timeout: 30\n  url: ${APP_URL:http://default}\n  hosts: [a, b]\n")
	testutil.WriteDocument(t, dir, "application-local.yaml", "app:\n  timeout: 5\n")
	return dir
}

func TestShowFlat(t *testing.T) {
	dir := writeDocs(t)

	out, err := execute(t, "show", "application.yaml", "--dir", dir, "--profile", "local")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		`app.hosts=["a","b"]`,
		"app.name=svc",
		"app.timeout=5",
		"app.url=http://default",
	}, lines)
}

func TestShowJSONAndYAML(t *testing.T) {
	dir := writeDocs(t)

	out, err := execute(t, "show", "application.yaml", "--dir", dir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"app.url": "http://default"`)

	out, err = execute(t, "show", "application.yaml", "--dir", dir, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "app.timeout: 30")

	_, err = execute(t, "show", "application.yaml", "--dir", dir, "-f", "xml")
	assert.Error(t, err)
}

func TestWriteStoreJSON(t *testing.T) {
	store := config.NewStore(map[string]any{"app.url": "http://a<b>"})

	var out bytes.Buffer
	require.NoError(t, writeStore(&out, store, "json"))
	assert.Equal(t, "{\n  \"app.url\": \"http://a<b>\"\n}\n", out.String())

	// the pooled buffer is reset between writes
	out.Reset()
	require.NoError(t, writeStore(&out, store, "json"))
	assert.Equal(t, 1, strings.Count(out.String(), "app.url"))
}

func TestGetWithOverride(t *testing.T) {
	dir := writeDocs(t)

	out, err := execute(t, "get", "application.yaml", "app.url", "--dir", dir, "--set", "APP_URL=http://override")
	require.NoError(t, err)
	assert.Equal(t, "http://override\n", out)

	_, err = execute(t, "get", "application.yaml", "app.missing", "--dir", dir)
	assert.Error(t, err)

	_, err = execute(t, "get", "application.yaml", "app.url", "--dir", dir, "--set", "broken")
	assert.Error(t, err)
}

func TestEnvFileOverride(t *testing.T) {
	dir := writeDocs(t)
	envFile := testutil.WriteDocument(t, dir, "overrides.env", "APP_URL=http://from-file\n")

	out, err := execute(t, "get", "application.yaml", "app.url", "--dir", dir, "--env-file", envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file\n", out)
}

func TestProfileFromEnvironment(t *testing.T) {
	dir := writeDocs(t)
	t.Setenv("STRATA_PROFILE", "local")

	out, err := execute(t, "get", "application.yaml", "app.timeout", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestMissingDocument(t *testing.T) {
	_, err := execute(t, "show", "application.yaml", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestUnknownSource(t *testing.T) {
	_, err := execute(t, "show", "application.yaml", "--source", "ftp")
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	out, err := execute(t, "demo")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "timeout=30")
	assert.Contains(t, lines[1], "timeout=5")
	assert.Contains(t, lines[1], "demo_local")
	assert.Contains(t, lines[2], "url=jdbc:env")
}

func TestRunDemoBindsNested(t *testing.T) {
	cfgs, err := runDemo(context.Background(), testutil.TestLogger(t), nil)
	require.NoError(t, err)
	require.Len(t, cfgs, 3)

	for _, c := range cfgs {
		require.NotNil(t, c.Database)
		assert.Equal(t, "strata-demo", c.Name)
		assert.Equal(t, 4, c.Database.PoolSize)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "strata v"+version)
}
