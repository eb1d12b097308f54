package config_test

import (
	"path/filepath"
	"testing"

	"github.com/hbjs97/multi-setup/internal/config"
	"github.com/hbjs97/multi-setup/internal/env"
	"github.com/hbjs97/multi-setup/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "setup.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "~/.local/bin", cfg.BinDir)
	assert.Equal(t, "multi", cfg.LinkName)
	assert.Equal(t, []string{"tmux", "git"}, cfg.Dependencies)
	assert.Equal(t, []string{"help"}, cfg.SmokeArgs)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := testutil.TempConfigFile(t, `
bin_dir = "$HOME/bin"
link_name = "mt"
source = "~/src/multi/multi"
dependencies = ["tmux", "git", "fzf"]
smoke_args = ["list"]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "$HOME/bin", cfg.BinDir)
	assert.Equal(t, "mt", cfg.LinkName)
	assert.Equal(t, []string{"tmux", "git", "fzf"}, cfg.Dependencies)
	assert.Equal(t, []string{"list"}, cfg.SmokeArgs)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := testutil.TempConfigFile(t, `link_name = "mt"`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mt", cfg.LinkName)
	assert.Equal(t, "~/.local/bin", cfg.BinDir)
	assert.Equal(t, []string{"tmux", "git"}, cfg.Dependencies)
}

func TestLoad_EmptyDependencyListIsKept(t *testing.T) {
	path := testutil.TempConfigFile(t, `dependencies = []`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Dependencies)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := testutil.TempConfigFile(t, `bin_dir = `)

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := testutil.TempConfigFile(t, `bindir = "/opt/bin"`)

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrConfig)
	assert.Contains(t, err.Error(), "bindir")
}

func TestLoad_InvalidLinkName(t *testing.T) {
	path := testutil.TempConfigFile(t, `link_name = "bin/multi"`)

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestLoad_InvalidDependency(t *testing.T) {
	path := testutil.TempConfigFile(t, `dependencies = ["/usr/bin/tmux"]`)

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestResolve(t *testing.T) {
	snap := &env.Snapshot{Home: "/home/u"}
	cfg := config.Default()

	assert.Equal(t, "/home/u/.local/bin", cfg.ResolveBinDir(snap))
	assert.Equal(t, "/home/u/.local/bin/multi", cfg.LinkPath(snap))
	assert.Empty(t, cfg.ResolveSource(snap))

	cfg.Source = "~/src/multi/multi"
	assert.Equal(t, "/home/u/src/multi/multi", cfg.ResolveSource(snap))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("multi", "setup.toml"), filepath.Join(filepath.Base(filepath.Dir(config.DefaultPath())), filepath.Base(config.DefaultPath())))
}
