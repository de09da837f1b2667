package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"TRANSCRIPT_ROOT", "DB_PATH", "CHART_DIR", "TOP_N", "LOG_LEVEL", "LOG_JSON", "FORMAT"} {
		t.Setenv("CHATSTAT_"+k, "")
		os.Unsetenv("CHATSTAT_" + k)
	}
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := setHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "chats"), cfg.TranscriptRoot)
	assert.Equal(t, filepath.Join(home, ".config", "chatstat", "chatstat.db"), cfg.DBPath)
	assert.Equal(t, 15, cfg.TopN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.Format)
}

func TestLoad_FileAndHomeExpansion(t *testing.T) {
	home := setHome(t)
	path := writeConfig(t, t.TempDir(), `
transcript_root = "~/exports"
db_path = "/var/lib/chatstat.db"
top_n = 5
log_level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "exports"), cfg.TranscriptRoot)
	assert.Equal(t, "/var/lib/chatstat.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_DefaultFileLocation(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, ".config", "chatstat")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeConfig(t, dir, `top_n = 7`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.TopN)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setHome(t)
	path := writeConfig(t, t.TempDir(), `top_n = 5`)
	t.Setenv("CHATSTAT_TOP_N", "20")
	t.Setenv("CHATSTAT_LOG_JSON", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.TopN)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_Errors(t *testing.T) {
	setHome(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `top_n = [`},
		{"top_n too small", `top_n = 0`},
		{"bad log level", `log_level = "chatty"`},
		{"bad format", `format = "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/u/x", expandHome("~/x", "/home/u"))
	assert.Equal(t, "~", expandHome("~", "/home/u"))
	assert.Equal(t, "/abs", expandHome("/abs", "/home/u"))
}
