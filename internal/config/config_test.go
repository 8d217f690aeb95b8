// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RAGCHAT_HOME", dir)
	for _, k := range []string{"RAGCHAT_URL", "RAGCHAT_TIMEOUT", "RAGCHAT_LOG_LEVEL", "RAGCHAT_LOG_FILE",
		"RAGCHAT_TELEMETRY", "RAGCHAT_THEME", "RAGCHAT_PLAIN"} {
		t.Setenv(k, "")
	}
	os.Unsetenv("NO_COLOR")
	return dir
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, 120*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, []string{".pdf", ".txt", ".docx"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, filepath.Join(dir, "logs", "ragchat.log"), cfg.Logging.File)
	assert.Equal(t, filepath.Join(dir, "logs", "ragchat_traces.log"), cfg.Telemetry.TraceFile)
}

func TestLoad_FormatPrecedence(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("backend:\n  url: http://yaml:1\n"), 0600))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://yaml:1", cfg.Backend.URL)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"backend":{"url":"http://json:2"}}`), 0600))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://json:2", cfg.Backend.URL)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[backend]\nurl = \"http://toml:3/\"\n"), 0600))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://toml:3", cfg.Backend.URL, "trailing slash is trimmed")
}

func TestLoadFromPath_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "ui.theme", verrs[0].Field)
}

func TestLoadFromPath_MalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("RAGCHAT_URL", "https://chat.example.com")
	t.Setenv("RAGCHAT_TIMEOUT", "5")
	t.Setenv("RAGCHAT_LOG_LEVEL", "debug")
	t.Setenv("RAGCHAT_TELEMETRY", "yes")
	t.Setenv("RAGCHAT_THEME", "light")
	t.Setenv("NO_COLOR", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", cfg.Backend.URL)
	assert.Equal(t, 5, cfg.Backend.TimeoutSecs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.True(t, cfg.UI.Plain)
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSaveTOML_RoundTripAndPermissions(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://saved:9"
	cfg.UI.ShowThinking = true
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if filepath.Separator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved:9", loaded.Backend.URL)
	assert.True(t, loaded.UI.ShowThinking)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestLoadForEdit_IgnoresEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Backend.URL = "http://docs.internal:9000"
	require.NoError(t, SaveToPath(cfg, path))

	t.Setenv("RAGCHAT_URL", "http://override:1")
	edit, err := LoadForEdit(path)
	require.NoError(t, err)
	assert.Equal(t, "http://docs.internal:9000", edit.Backend.URL)

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:1", loaded.Backend.URL)
}

func TestLoadForEdit_MissingFile(t *testing.T) {
	dir := isolate(t)
	cfg, err := LoadForEdit(filepath.Join(dir, "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Backend.URL, cfg.Backend.URL)
}

func TestSaveToPath_FormatByExtension(t *testing.T) {
	dir := isolate(t)
	for _, name := range []string{"c.toml", "c.json", "c.yml"} {
		path := filepath.Join(dir, name)
		cfg := Default()
		cfg.UI.Theme = "light"
		require.NoError(t, SaveToPath(cfg, path), name)

		loaded, err := LoadFromPath(path)
		require.NoError(t, err, name)
		assert.Equal(t, "light", loaded.UI.Theme, name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.Backend.URL = "localhost:8000" }, "backend.url"},
		{"ftp url", func(c *Config) { c.Backend.URL = "ftp://host" }, "backend.url"},
		{"zero timeout", func(c *Config) { c.Backend.TimeoutSecs = 0 }, "backend.timeout_secs"},
		{"negative rate", func(c *Config) { c.Backend.RequestsPerSecond = -1 }, "backend.requests_per_second"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad extension", func(c *Config) { c.Upload.AllowedExtensions = []string{"pdf"} }, "upload.allowed_extensions"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}

	assert.NoError(t, Default().Validate())
}

// =============================================================================
// GET/SET TESTS
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("backend.url", "http://other:1"))
	require.NoError(t, cfg.Set("backend.timeout_secs", "30"))
	require.NoError(t, cfg.Set("ui.show_thinking", "true"))
	require.NoError(t, cfg.Set("upload.allowed_extensions", ".md, .txt"))

	v, err := cfg.Get("backend.url")
	require.NoError(t, err)
	assert.Equal(t, "http://other:1", v)
	assert.Equal(t, 30, cfg.Backend.TimeoutSecs)
	assert.True(t, cfg.UI.ShowThinking)
	assert.Equal(t, []string{".md", ".txt"}, cfg.Upload.AllowedExtensions)

	_, err = cfg.Get("backend.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("backend.url.x", "y"))
	assert.Error(t, cfg.Set("backend.timeout_secs", "abc"))
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Upload.AllowedExtensions[0] = ".md"
	assert.Equal(t, ".pdf", cfg.Upload.AllowedExtensions[0])
}

// =============================================================================
// SCHEMA TESTS
// =============================================================================

func TestSchemaJSON(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"backend"`)
	assert.Contains(t, s, `"timeout_secs"`)
	assert.Contains(t, s, `"ragchat configuration"`)
}

// =============================================================================
// WATCH TESTS
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan *Config, 4)
	stop, err := WatchWithDebounce(context.Background(), path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			got <- cfg
		}
	})
	require.NoError(t, err)
	defer stop()

	cfg := Default()
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case reloaded := <-got:
		assert.Equal(t, "light", reloaded.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

// =============================================================================
// GLOBAL TESTS
// =============================================================================

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// called concurrently. Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Global()
	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Version)

	custom := Default()
	custom.Version = "custom"
	SetGlobal(custom)
	assert.Equal(t, "custom", Global().Version)
}
