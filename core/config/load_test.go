package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()

	path, err := Initialize(fs, "/etc/agsh")
	require.NoError(t, err)
	assert.Equal(t, "/etc/agsh/config.yaml", path)

	cfg, err := Load(fs, "/etc/agsh")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "~/.agfs_shell_history", cfg.HistFile)

	// Loading by file path works too.
	cfg2, err := Load(fs, "/etc/agsh/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestInitialize_refusesOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Initialize(fs, "/etc/agsh")
	require.NoError(t, err)

	_, err = Initialize(fs, "/etc/agsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoad_missing(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "/nope")
	assert.Error(t, err)
}

func TestLoad_rejectsUnknownFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/config.yaml",
		[]byte("server_url: http://x.test\nbogus_field: 1\n"), 0o644))

	_, err := Load(fs, "/cfg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestLoad_invalidConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/config.yaml",
		[]byte("prompt: '> '\n"), 0o644))

	_, err := Load(fs, "/cfg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_url or local.root")
}
