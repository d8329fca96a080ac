package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"choreo/protocol"
	"choreo/scene"
	"choreo/stage"
)

const DefaultPath = "choreo.yaml"

// Environment overrides, applied after the YAML file.
const (
	EnvAddress  = "CHOREO_ADDRESS"
	EnvFrameHz  = "CHOREO_FPS"
	EnvLogLevel = "CHOREO_LOG_LEVEL"
	EnvDetail   = "CHOREO_DETAIL"
	EnvSeed     = "CHOREO_SEED"
)

type ServerConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"` // empty allows any origin
}

type PlaybackConfig struct {
	FrameHz        int  `yaml:"frame_hz"`
	BroadcastEvery int  `yaml:"broadcast_every"`
	Loop           bool `yaml:"loop"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
	Scene    scene.Config   `yaml:"scene"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Playback: PlaybackConfig{
			FrameHz:        protocol.FrameHz,
			BroadcastEvery: protocol.FrameHz / protocol.BroadcastHz,
			Loop:           true,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Scene:   scene.Default(),
	}
}

// InitConfig loads .env files into the process environment. Missing files are
// skipped.
func InitConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}

// Load reads a YAML file over the defaults and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v, err := GetEnvVariable(EnvAddress); err == nil {
		c.Server.Address = v
	}
	if v, err := GetEnvVariable(EnvLogLevel); err == nil {
		c.Logging.Level = v
	}
	if v, err := GetEnvVariable(EnvFrameHz); err == nil {
		hz, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFrameHz, err)
		}
		c.Playback.FrameHz = hz
	}
	if v, err := GetEnvVariable(EnvDetail); err == nil {
		d, err := scene.ParseDetail(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDetail, err)
		}
		c.Scene.Detail = d
	}
	if v, err := GetEnvVariable(EnvSeed); err == nil {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Scene.Seed = seed
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Playback.FrameHz <= 0 {
		return fmt.Errorf("%w: frame_hz must be > 0, got %d", scene.ErrInvalidConfig, c.Playback.FrameHz)
	}
	if c.Playback.BroadcastEvery < 0 {
		return fmt.Errorf("%w: broadcast_every must be >= 0, got %d", scene.ErrInvalidConfig, c.Playback.BroadcastEvery)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging level: %v", scene.ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: logging format %q (valid: console, json)", scene.ErrInvalidConfig, c.Logging.Format)
	}
	return c.Scene.Validate()
}

// StageOptions turns the playback section into options for new stages.
func (c *Config) StageOptions(log *zap.Logger) stage.Options {
	opts := stage.DefaultOptions()
	opts.Scene = c.Scene
	opts.FrameHz = c.Playback.FrameHz
	opts.BroadcastEvery = c.Playback.BroadcastEvery
	opts.Loop = c.Playback.Loop
	opts.Logger = log
	return opts
}

// NewLogger builds the process logger from the logging section. verbose forces debug.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if c.Logging.Format != "json" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return zc.Build()
}
