package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dynstore.yaml")
	data := `
storages:
  - pattern: '^kv_(\w+)$'
    backend: sqlite
    sqlite:
      path: '` + filepath.Join(dir, "kv.db") + `'
      table: 'kv_$1'
  - pattern: 'mem_*'
    syntax: glob
    backend: memory
    prefix: 'scratch'
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestPatterns(t *testing.T) {
	cfg := writeConfig(t)

	out, _, err := run(t, "--config", cfg, "patterns")
	require.NoError(t, err)

	assert.Contains(t, out, "PATTERN")
	assert.Contains(t, out, `^kv_(\w+)$`)
	assert.Contains(t, out, "mem_*")
	assert.Less(t, bytes.Index([]byte(out), []byte("^kv_")), bytes.Index([]byte(out), []byte("mem_*")))
}

func TestResolve(t *testing.T) {
	cfg := writeConfig(t)

	t.Run("pattern", func(t *testing.T) {
		out, _, err := run(t, "--config", cfg, "resolve", "kv_users")
		require.NoError(t, err)
		assert.Contains(t, out, "*sqlite.Backend")
		assert.Contains(t, out, `pattern ^kv_(\w+)$`)
	})

	t.Run("glob with prefix", func(t *testing.T) {
		out, _, err := run(t, "--config", cfg, "resolve", "mem_1")
		require.NoError(t, err)
		assert.Contains(t, out, "*prefix.Backend")
	})

	t.Run("default", func(t *testing.T) {
		out, _, err := run(t, "--config", cfg, "resolve", "memory")
		require.NoError(t, err)
		assert.Contains(t, out, "*memory.Backend")
		assert.Contains(t, out, "default")
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := run(t, "--config", cfg, "resolve", "nothing_here")
		assert.Error(t, err)
	})

	t.Run("debug logging", func(t *testing.T) {
		_, logs, err := run(t, "--config", cfg, "--log-level", "debug", "resolve", "kv_logs")
		require.NoError(t, err)
		assert.Contains(t, logs, "resolved by pattern")
	})
}

func TestKeyValueCommands(t *testing.T) {
	cfg := writeConfig(t)

	_, _, err := run(t, "--config", cfg, "set", "kv_orders", "id", "42", "--ttl", "1h")
	require.NoError(t, err)

	out, _, err := run(t, "--config", cfg, "get", "kv_orders", "id")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	// separate table per captured name
	out, _, err = run(t, "--config", cfg, "get", "kv_users", "id")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)

	_, _, err = run(t, "--config", cfg, "delete", "kv_orders", "id")
	require.NoError(t, err)

	out, _, err = run(t, "--config", cfg, "get", "kv_orders", "id")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	const key = "DYNSTORE_CLI_TEST_DB"
	t.Cleanup(func() { os.Unsetenv(key) })

	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte(key+"="+filepath.Join(dir, "env.db")+"\n"), 0o600))

	cfgPath := filepath.Join(dir, "dynstore.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
storages:
  - pattern: '^env_'
    backend: sqlite
    sqlite: { path: '${`+key+`}' }
`), 0o600))

	_, _, err := run(t, "--env-file", envPath, "--config", cfgPath, "set", "env_a", "k", "v")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "env.db"))

	_, _, err = run(t, "--env-file", filepath.Join(dir, "missing.env"), "patterns")
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	_, _, err := run(t, "get", "only-name")
	assert.Error(t, err)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "patterns")
	assert.Error(t, err)
}
