package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PrintsVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	require.NoError(t, run([]string{"eager-graphql", "--version"}, &out))
	assert.Equal(t, "eager-graphql dev (none)\n", out.String())
}

func TestRun_RejectsUnknownFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	err := run([]string{"eager-graphql", "--no-such-flag"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_FailsValidation(t *testing.T) {
	t.Chdir(t.TempDir())

	err := run([]string{"eager-graphql", "--server.graphql_max_page_size=-1"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestRun_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("EGQL_DATABASE_DRIVER", "")
	require.NoError(t, os.Unsetenv("EGQL_DATABASE_DRIVER"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EGQL_DATABASE_DRIVER=oracle\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("EGQL_DATABASE_DRIVER") })

	err := run([]string{"eager-graphql"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
