package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapline/scanner"
)

func TestLoadFileConfig_MissingDefaultIsEmpty(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	fc, err := loadFileConfig("")
	require.NoError(t, err)
	assert.Empty(t, fc.ResultsDir)
}

func TestLoadFileConfig_MissingExplicitFails(t *testing.T) {
	_, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFileConfig_Apply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zapline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
results_dir: out
active_deadline: 1800
auth:
  login_url: http://localhost:3000/login
  username: admin
  password: hunter2
hook:
  automation_prefixes: ["bot/"]
`), 0o644))

	fc, err := loadFileConfig(path)
	require.NoError(t, err)

	cfg := scanner.DefaultConfig()
	fc.apply(&cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "out", cfg.ResultsDir)
	assert.Equal(t, 30*time.Minute, cfg.ActiveDeadline)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, []string{"bot/"}, fc.Hook.AutomationPrefixes)

	// Untouched fields keep their defaults.
	assert.Equal(t, 100, cfg.MaxChildren)
	assert.Equal(t, 2*time.Second, cfg.SpiderInterval)
}
