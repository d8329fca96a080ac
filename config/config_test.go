package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"choreo/scene"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAddress, EnvFrameHz, EnvLogLevel, EnvDetail, EnvSeed} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "choreo.yaml")
	doc := `
server:
  address: ":9090"
playback:
  frame_hz: 60
  loop: false
scene:
  detail: minimal
  layout:
    tokens: 4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 60, cfg.Playback.FrameHz)
	assert.False(t, cfg.Playback.Loop)
	assert.Equal(t, scene.DetailMinimal, cfg.Scene.Detail)
	assert.Equal(t, 4, cfg.Scene.Layout.Tokens)
	// Untouched fields keep their defaults.
	assert.Equal(t, scene.Default().Layout.Blocks, cfg.Scene.Layout.Blocks)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playback: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadValidates(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "choreo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene:\n  layout:\n    blocks: 0\n"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, scene.ErrInvalidConfig)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("all overrides applied", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvAddress, "127.0.0.1:7000")
		t.Setenv(EnvFrameHz, "24")
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvDetail, "0")
		t.Setenv(EnvSeed, "7")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, "127.0.0.1:7000", cfg.Server.Address)
		assert.Equal(t, 24, cfg.Playback.FrameHz)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, scene.DetailMinimal, cfg.Scene.Detail)
		assert.Equal(t, int64(7), cfg.Scene.Seed)
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		clearEnv(t)
		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("bad numbers fail", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvFrameHz, "fast")
		assert.Error(t, DefaultConfig().applyEnvOverrides())
	})

	t.Run("bad detail fails", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvDetail, "ultra")
		assert.Error(t, DefaultConfig().applyEnvOverrides())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero fps", func(c *Config) { c.Playback.FrameHz = 0 }, false},
		{"negative broadcast", func(c *Config) { c.Playback.BroadcastEvery = -1 }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, false},
		{"json format", func(c *Config) { c.Logging.Format = "json" }, true},
		{"bad scene", func(c *Config) { c.Scene.Theme.Token = "nope" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, scene.ErrInvalidConfig)
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "choreo.yaml")
	cfg := DefaultConfig()
	cfg.Playback.FrameHz = 48
	cfg.Scene.Detail = scene.DetailMinimal
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48, got.Playback.FrameHz)
	assert.Equal(t, scene.DetailMinimal, got.Scene.Detail)
}

func TestInitConfigSkipsMissingFile(t *testing.T) {
	assert.NoError(t, InitConfig(filepath.Join(t.TempDir(), ".env")))
}

func TestInitConfigLoadsFile(t *testing.T) {
	t.Setenv("CHOREO_TEST_VAR", "")
	os.Unsetenv("CHOREO_TEST_VAR")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHOREO_TEST_VAR=hello\n"), 0o644))
	require.NoError(t, InitConfig(path))

	v, err := GetEnvVariable("CHOREO_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestGetEnvVariable(t *testing.T) {
	_, err := GetEnvVariable("")
	assert.Error(t, err)
	t.Setenv("CHOREO_EMPTY", "")
	_, err = GetEnvVariable("CHOREO_EMPTY")
	assert.Error(t, err)
}

func TestStageOptionsAndLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Playback.FrameHz = 12
	cfg.Playback.Loop = false
	opts := cfg.StageOptions(zap.NewNop())
	assert.Equal(t, 12, opts.FrameHz)
	assert.False(t, opts.Loop)
	assert.NotNil(t, opts.Script)

	log, err := cfg.NewLogger(true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	cfg.Logging.Level = "nope"
	_, err = cfg.NewLogger(false)
	assert.Error(t, err)
}
