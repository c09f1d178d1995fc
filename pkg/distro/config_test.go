package distro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "v0.4.0+rhai0", cfg.BaseVersion)
	assert.Len(t, cfg.Pinned, 7)
	assert.Equal(t, "'kfp-kubernetes==2.14.6'", cfg.Pinned[0])
	assert.True(t, cfg.InstallFromSource())
	assert.Equal(t,
		"RUN uv pip install --no-cache --no-deps git+https://github.com/opendatahub-io/llama-stack.git@v0.4.0+rhai0",
		cfg.SourceInstall())

	cfg.Pinned[0] = "changed"
	assert.Equal(t, "'kfp-kubernetes==2.14.6'", DefaultPinned[0], "defaults must not alias")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv(EnvBaseVersion, "")
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(path, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	t.Setenv(EnvBaseVersion, "")
	path := writeFile(t, "stackdistro.toml", `
base_version = "0.2.23"
pinned = ["'numpy<2'"]

[paths]
output = "out/Containerfile"

[[patches]]
package = "pymilvus"
extra = "bulk_writer"

[docs]
title = "Acme Stack"
`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.2.23", cfg.BaseVersion)
	assert.False(t, cfg.InstallFromSource())
	assert.Empty(t, cfg.SourceInstall())
	assert.Equal(t, []string{"'numpy<2'"}, cfg.Pinned)
	assert.Equal(t, "out/Containerfile", cfg.Paths.Output)
	assert.Equal(t, "distribution/Containerfile.in", cfg.Paths.Template, "unset keys keep defaults")
	assert.Equal(t, []deps.ExtraPatch{{Package: "pymilvus", Extra: "bulk_writer"}}, cfg.Patches)
	assert.Equal(t, "Acme Stack", cfg.Docs.Title)
	assert.Equal(t, "Open Data Hub", cfg.Docs.Vendor)
	assert.Equal(t, deps.DefaultInstaller, cfg.Installer)
}

func TestLoadConfig_EmptyLists(t *testing.T) {
	t.Setenv(EnvBaseVersion, "")
	path := writeFile(t, "stackdistro.toml", "pinned = []\npatches = []\n")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Empty(t, cfg.Pinned)
	assert.NotNil(t, cfg.Patches)
	assert.Empty(t, cfg.Patches)
	assert.Equal(t, "pymilvus==2.4.0", cfg.Normalizer().Normalize("pymilvus==2.4.0"))
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvBaseVersion, "abc1234")
	path := writeFile(t, "stackdistro.toml", `base_version = "0.2.23"`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "abc1234", cfg.BaseVersion)
	assert.True(t, cfg.InstallFromSource())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv(EnvBaseVersion, "")

	_, err := LoadConfig(writeFile(t, "bad.toml", "base_version = "), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	_, err = LoadConfig(writeFile(t, "unknown.toml", "base_versoin = \"1.0.0\"\n[paths]\nreadme2 = \"x\"\n"), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "base_versoin, paths.readme2")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty version", func(c *Config) { c.BaseVersion = "" }},
		{"shell in version", func(c *Config) { c.BaseVersion = "main;rm" }},
		{"bad release", func(c *Config) { c.BaseVersion, c.SourceMarker = "1.x.y", "" }},
		{"owner with slash", func(c *Config) { c.SourceRepoOwner = "a/b" }},
		{"empty installer", func(c *Config) { c.Installer = " " }},
		{"bad pin", func(c *Config) { c.Pinned = []string{"numpy"} }},
		{"bad patch package", func(c *Config) { c.Patches = []deps.ExtraPatch{{Package: "", Extra: "x"}} }},
		{"bad patch extra", func(c *Config) { c.Patches = []deps.ExtraPatch{{Package: "x", Extra: "a b"}} }},
		{"empty template", func(c *Config) { c.Paths.Template = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
		})
	}
}

func TestConfigAssembleOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.AssembleOptions()
	assert.Equal(t, cfg.Installer, opts.Installer)
	assert.Equal(t, cfg.Pinned, opts.Pinned)
}
