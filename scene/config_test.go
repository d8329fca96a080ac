package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"no blocks":     func(c *Config) { c.Layout.Blocks = 0 },
		"zero spacing":  func(c *Config) { c.Layout.Spacing = 0 },
		"bad color":     func(c *Config) { c.Theme.Token = "green" },
		"bad tool":      func(c *Config) { c.Layout.Tools[1].Glow = "#12" },
		"jitter range":  func(c *Config) { c.Motion.JitterMin = 1 },
		"negative toks": func(c *Config) { c.Layout.Tokens = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseDetail(t *testing.T) {
	d, err := ParseDetail("minimal")
	require.NoError(t, err)
	assert.Equal(t, DetailMinimal, d)

	d, err = ParseDetail("1")
	require.NoError(t, err)
	assert.Equal(t, DetailDefault, d)

	_, err = ParseDetail("cinematic")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigYAMLOverridesSubset(t *testing.T) {
	cfg := Default()
	doc := `
detail: minimal
seed: 9
layout:
  blocks: 4
  tools:
    - name: Only Tool
      offset: {x: 0, y: -1, z: -1}
      ring: "#111111"
      glow: "#222222"
      pulse_out: "#333333"
      pulse_in: "#444444"
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))
	assert.Equal(t, DetailMinimal, cfg.Detail)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 4, cfg.Layout.Blocks)
	assert.Equal(t, BlockSpacing, cfg.Layout.Spacing)
	require.Len(t, cfg.Layout.Tools, 1)
	assert.Equal(t, -1.0, cfg.Layout.Tools[0].Offset.Y)
	require.NoError(t, cfg.Validate())

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "detail: minimal")
}
