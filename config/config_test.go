//go:build unit

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdevan/forkpin/config"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveToken(t *testing.T) {
	t.Run("should return empty string for empty input", func(t *testing.T) {
		t.Parallel()

		// given
		raw := ""

		// when
		result := config.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should return inline value unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "https://example.com/org/repo.git"

		// when
		result := config.ResolveToken(raw)

		// then
		assert.Equal(t, "https://example.com/org/repo.git", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_TOKEN_RESOLVE", "my-secret-value")
		raw := "${TEST_TOKEN_RESOLVE}"

		// when
		result := config.ResolveToken(raw)

		// then
		assert.Equal(t, "my-secret-value", result)
	})

	t.Run("should expand env var embedded in string", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_PARTIAL_TOKEN", "secret")
		raw := "prefix-${TEST_PARTIAL_TOKEN}-suffix"

		// when
		result := config.ResolveToken(raw)

		// then
		assert.Equal(t, "prefix-secret-suffix", result)
	})

	t.Run("should return empty for unset env var", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "${DEFINITELY_NOT_SET_VAR_12345}"

		// when
		result := config.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should read value from file when path exists", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "token.key")
		err := os.WriteFile(tokenFile, []byte("  file-based-value  \n"), 0o600)
		require.NoError(t, err)

		// when
		result := config.ResolveToken(tokenFile)

		// then
		assert.Equal(t, "file-based-value", result)
	})
}

func TestLoad(t *testing.T) {
	t.Run("should load a valid config document", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "forkpin.json")
		content := `{
			"widget": {
				"upstream": "https://github.com/upstream/widget.git",
				"fork": "https://github.com/me/widget.git",
				"refs": ["feature", "1234567"],
				"workspace": {"include": ["src/**"], "exclude": ["vendor/**"]}
			}
		}`
		require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))

		// when
		cfg, err := config.Load(cfgFile)

		// then
		require.NoError(t, err)
		entry, getErr := cfg.Get("widget")
		require.NoError(t, getErr)
		assert.Equal(t, "widget", entry.Name)
		assert.Equal(t, "https://github.com/upstream/widget.git", entry.UpstreamURL)
		assert.Equal(t, "https://github.com/me/widget.git", entry.ForkURL)
		assert.Equal(t, []string{"feature", "1234567"}, entry.Refs)
		assert.Equal(t, []string{"src/**"}, entry.Workspace.Include)
		assert.Equal(t, []string{"vendor/**"}, entry.Workspace.Exclude)
	})

	t.Run("should expand env vars in upstream and fork urls during load", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_LOAD_HOST", "example.internal")
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "forkpin.json")
		content := `{"widget": {"upstream": "https://${TEST_LOAD_HOST}/widget.git", "refs": []}}`
		require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))

		// when
		cfg, err := config.Load(cfgFile)

		// then
		require.NoError(t, err)
		entry, getErr := cfg.Get("widget")
		require.NoError(t, getErr)
		assert.Equal(t, "https://example.internal/widget.git", entry.UpstreamURL)
	})

	t.Run("should fail for nonexistent config file", func(t *testing.T) {
		t.Parallel()

		// given
		path := "/tmp/nonexistent_forkpin_config_xyz.json"

		// when
		cfg, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should fail for invalid JSON", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "bad.json")
		require.NoError(t, os.WriteFile(cfgFile, []byte("{{{not json"), 0o600))

		// when
		cfg, err := config.Load(cfgFile)

		// then
		require.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("should fail when an entry has no upstream url", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "missing-upstream.json")
		require.NoError(t, os.WriteFile(cfgFile, []byte(`{"widget": {"refs": []}}`), 0o600))

		// when
		cfg, err := config.Load(cfgFile)

		// then
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "missing upstream")
	})
}

func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("should fail for an unknown entry name", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "forkpin.json")
		require.NoError(t, os.WriteFile(
			cfgFile, []byte(`{"widget": {"upstream": "https://example.com/w.git", "refs": []}}`), 0o600,
		))
		cfg, err := config.Load(cfgFile)
		require.NoError(t, err)

		// when
		_, getErr := cfg.Get("missing")

		// then
		require.Error(t, getErr)
	})
}

func TestAllNames(t *testing.T) {
	t.Parallel()

	t.Run("should return sorted names excluding the tool's own entry", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "forkpin.json")
		content := `{
			"zeta":    {"upstream": "https://example.com/zeta.git", "refs": []},
			"alpha":   {"upstream": "https://example.com/alpha.git", "refs": []},
			"forkpin": {"upstream": "https://example.com/forkpin.git", "refs": []}
		}`
		require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))
		cfg, err := config.Load(cfgFile)
		require.NoError(t, err)

		// when
		names := cfg.AllNames()

		// then
		assert.Equal(t, []string{"alpha", "zeta"}, names)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("should return an error when no config file exists", func(t *testing.T) {
		// given
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		// when
		path, err := config.FindConfigFile()

		// then
		require.Error(t, err)
		assert.Empty(t, path)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("should find forkpin.json in current directory", func(t *testing.T) {
		// given
		tmpDir := t.TempDir()
		chdir(t, tmpDir)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "forkpin.json"), []byte("{}"), 0o600))

		// when
		path, err := config.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, "forkpin.json", path)
	})

	t.Run("should find .forkpin.json in current directory", func(t *testing.T) {
		// given
		tmpDir := t.TempDir()
		chdir(t, tmpDir)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".forkpin.json"), []byte("{}"), 0o600))

		// when
		path, err := config.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, ".forkpin.json", path)
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup, equivalent to testing.T.Chdir.
func chdir(t *testing.T, dir string) {
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(old))
	})
}
