package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xonecas/docsync/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsync.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, constants.MappingFile, cfg.Mapping.Path)
	assert.True(t, cfg.Journal.Enabled)
	assert.True(t, cfg.Walk.RespectGitignore)
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.ConfigFile), []byte("[mapping]\npath = \"docs.yaml\"\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "docs.yaml", cfg.Mapping.Path)
	assert.Equal(t, "info", cfg.Log.ConsoleLevel, "unset keys keep defaults")
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[log]
file = ""
level = "warn"

[journal]
enabled = false

[walk]
respect_gitignore = false

[ui]
syntax_theme = "monokai"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Journal.Enabled)
	assert.False(t, cfg.Walk.RespectGitignore)
	assert.Equal(t, "monokai", cfg.UI.SyntaxTheme)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config file not found")

	_, err = Load(writeConfig(t, "[log\n"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(writeConfig(t, "[log]\nlevel = \"loud\"\nconsole_level = \"quiet\"\n[ui]\nsyntax_theme = \"no-such-style\"\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "log.level")
	assert.ErrorContains(t, err, "log.console_level")
	assert.ErrorContains(t, err, "ui.syntax_theme")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOCSYNC_MAPPING", "other.yaml")
	t.Setenv("DOCSYNC_LOG_LEVEL", "error")
	t.Setenv("DOCSYNC_LOG_FILE", "out.log")
	t.Setenv("DOCSYNC_JOURNAL", "off")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", cfg.Mapping.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "out.log", cfg.Log.File)
	assert.False(t, cfg.Journal.Enabled)
}

func TestLoad_EnvJournalPath(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOCSYNC_JOURNAL", "/tmp/undo.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/tmp/undo.db", cfg.Journal.Path)
}

func TestValidate_Journal(t *testing.T) {
	cfg := Default()
	cfg.Journal.Path = ""
	cfg.Journal.RetentionDays = -1
	err := cfg.Validate()
	assert.ErrorContains(t, err, "journal.path")
	assert.ErrorContains(t, err, "journal.retention_days")
}
