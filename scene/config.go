package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid scene config")

// Detail selects between the bare scene and the polished one (shadows, staggered
// blocks, curved tool paths, jittering tokens).
type Detail int

const (
	DetailMinimal Detail = iota
	DetailDefault
)

func (d Detail) String() string {
	switch d {
	case DetailMinimal:
		return "minimal"
	case DetailDefault:
		return "default"
	}
	return "detail(" + strconv.Itoa(int(d)) + ")"
}

func ParseDetail(s string) (Detail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal", "0":
		return DetailMinimal, nil
	case "default", "1", "":
		return DetailDefault, nil
	}
	return 0, fmt.Errorf("%w: unknown detail level %q", ErrInvalidConfig, s)
}

func (d Detail) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Detail) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDetail(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Theme struct {
	Background string `yaml:"background"`
	BlockFill  string `yaml:"block_fill"`
	BlockEdge  string `yaml:"block_edge"`
	BlockFace  string `yaml:"block_face"`
	Rail       string `yaml:"rail"`
	Link       string `yaml:"link"`
	LabelText  string `yaml:"label_text"`
	LabelBG    string `yaml:"label_bg"`
	Token      string `yaml:"token"`
	TokenHot   string `yaml:"token_hot"`
	Caption    string `yaml:"caption"`
	Shadow     string `yaml:"shadow"`
	PausePlate string `yaml:"pause_plate"`
	PauseEdge  string `yaml:"pause_edge"`
	PauseBars  string `yaml:"pause_bars"`
	Halo       string `yaml:"halo"`
}

// ToolSpec places one tool node relative to the center block and colors the pulses
// that travel to and from it.
type ToolSpec struct {
	Name     string  `yaml:"name"`
	Offset   r3.Vec  `yaml:"offset"`
	Ring     string  `yaml:"ring"`
	Glow     string  `yaml:"glow"`
	PulseOut string  `yaml:"pulse_out"`
	PulseIn  string  `yaml:"pulse_in"`
	ArchOut  float64 `yaml:"arch_out"`
	ArchDown float64 `yaml:"arch_down"`
}

type LayoutConfig struct {
	Blocks       int        `yaml:"blocks"`
	OriginX      float64    `yaml:"origin_x"`
	Spacing      float64    `yaml:"spacing"`
	Stagger      []float64  `yaml:"stagger"`
	RailY        float64    `yaml:"rail_y"`
	RailPadding  float64    `yaml:"rail_padding"`
	Tokens       int        `yaml:"tokens"`
	TokenSpacing float64    `yaml:"token_spacing"`
	TokenLeadIn  float64    `yaml:"token_lead_in"`
	WrapMargin   float64    `yaml:"wrap_margin"`
	SpanPadding  float64    `yaml:"span_padding"`
	Tools        []ToolSpec `yaml:"tools"`
}

type MotionConfig struct {
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	SpeedConstant float64 `yaml:"speed_constant"`
	Wobble        float64 `yaml:"wobble"`
	WobbleFreq    float64 `yaml:"wobble_freq"`
	JitterMin     float64 `yaml:"jitter_min"`
	JitterMax     float64 `yaml:"jitter_max"`
	JitterYFreq   float64 `yaml:"jitter_y_freq"`
	JitterZFreq   float64 `yaml:"jitter_z_freq"`
}

type Captions struct {
	Pause  string `yaml:"pause"`
	Resume string `yaml:"resume"`
}

// Config is created once per scene and never mutated afterwards.
type Config struct {
	Detail   Detail       `yaml:"detail"`
	Seed     int64        `yaml:"seed"`
	Theme    Theme        `yaml:"theme"`
	Layout   LayoutConfig `yaml:"layout"`
	Motion   MotionConfig `yaml:"motion"`
	Captions Captions     `yaml:"captions"`
}

func Default() Config {
	return Config{
		Detail: DetailDefault,
		Seed:   42,
		Theme: Theme{
			Background: "#0b0f14",
			BlockFill:  "#16324d",
			BlockEdge:  "#1c758a",
			BlockFace:  "#102331",
			Rail:       "#0e2233",
			Link:       "#1b2a35",
			LabelText:  "#dddddd",
			LabelBG:    "#0c1218",
			Token:      "#34d399",
			TokenHot:   "#22d3ee",
			Caption:    "#dddddd",
			Shadow:     "#000000",
			PausePlate: "#17212b",
			PauseEdge:  "#ffea94",
			PauseBars:  "#ffff00",
			Halo:       "#ffff00",
		},
		Layout: LayoutConfig{
			Blocks:       BlockCount,
			OriginX:      BlockOriginX,
			Spacing:      BlockSpacing,
			Stagger:      []float64{0.15, 0.05, 0.0, -0.02, 0.04, 0.12},
			RailY:        RailY,
			RailPadding:  RailPadding,
			Tokens:       TokenCount,
			TokenSpacing: TokenSpacing,
			TokenLeadIn:  TokenLeadIn,
			WrapMargin:   WrapMargin,
			SpanPadding:  SpanPadding,
			Tools: []ToolSpec{
				{Name: "Search API", Offset: r3.Vec{X: -1.8, Y: -1.2, Z: -1.6}, Ring: "#0c4a3e", Glow: "#2dd4bf", PulseOut: "#34d399", PulseIn: "#10b981", ArchOut: 0.8, ArchDown: 0.5},
				{Name: "DB Query", Offset: r3.Vec{X: 0, Y: -1.8, Z: -2.0}, Ring: "#12395b", Glow: "#93c5fd", PulseOut: "#60a5fa", PulseIn: "#3b82f6", ArchOut: 0.9, ArchDown: 0.6},
				{Name: "Code Exec", Offset: r3.Vec{X: 1.8, Y: -1.2, Z: -1.6}, Ring: "#44235b", Glow: "#e9d5ff", PulseOut: "#c084fc", PulseIn: "#a855f7", ArchOut: 1.0, ArchDown: 0.5},
			},
		},
		Motion: MotionConfig{
			SpeedMin:      SpeedMin,
			SpeedMax:      SpeedMax,
			SpeedConstant: SpeedConstant,
			Wobble:        SpeedWobble,
			WobbleFreq:    WobbleFreq,
			JitterMin:     JitterMin,
			JitterMax:     JitterMax,
			JitterYFreq:   JitterYFreq,
			JitterZFreq:   JitterZFreq,
		},
		Captions: Captions{
			Pause:  "Policy pauses to decide tools (inference-time)",
			Resume: "Tool outputs integrated → inference resumes (token stream continues)",
		},
	}
}

func (c Config) Shadows() bool     { return c.Detail >= DetailDefault }
func (c Config) CurvedPaths() bool { return c.Detail >= DetailDefault }
func (c Config) Jitter() bool      { return c.Detail >= DetailDefault }

func (c Config) LinkOpacity() float64 {
	if c.Detail >= DetailDefault {
		return LinkOpacity
	}
	return LinkOpacityMinimal
}

func (c Config) Validate() error {
	l := c.Layout
	if l.Blocks < 1 {
		return fmt.Errorf("%w: blocks must be >= 1, got %d", ErrInvalidConfig, l.Blocks)
	}
	if l.Tokens < 0 {
		return fmt.Errorf("%w: tokens must be >= 0, got %d", ErrInvalidConfig, l.Tokens)
	}
	if l.Spacing <= 0 {
		return fmt.Errorf("%w: spacing must be > 0, got %v", ErrInvalidConfig, l.Spacing)
	}
	if c.Motion.JitterMin > c.Motion.JitterMax {
		return fmt.Errorf("%w: jitter_min %v > jitter_max %v", ErrInvalidConfig, c.Motion.JitterMin, c.Motion.JitterMax)
	}
	if c.Motion.SpeedMin > c.Motion.SpeedMax {
		return fmt.Errorf("%w: speed_min %v > speed_max %v", ErrInvalidConfig, c.Motion.SpeedMin, c.Motion.SpeedMax)
	}

	colors := map[string]string{
		"background":  c.Theme.Background,
		"block_fill":  c.Theme.BlockFill,
		"block_edge":  c.Theme.BlockEdge,
		"block_face":  c.Theme.BlockFace,
		"rail":        c.Theme.Rail,
		"link":        c.Theme.Link,
		"label_text":  c.Theme.LabelText,
		"label_bg":    c.Theme.LabelBG,
		"token":       c.Theme.Token,
		"token_hot":   c.Theme.TokenHot,
		"caption":     c.Theme.Caption,
		"shadow":      c.Theme.Shadow,
		"pause_plate": c.Theme.PausePlate,
		"pause_edge":  c.Theme.PauseEdge,
		"pause_bars":  c.Theme.PauseBars,
		"halo":        c.Theme.Halo,
	}
	for i, t := range l.Tools {
		colors[fmt.Sprintf("tools[%d].ring", i)] = t.Ring
		colors[fmt.Sprintf("tools[%d].glow", i)] = t.Glow
		colors[fmt.Sprintf("tools[%d].pulse_out", i)] = t.PulseOut
		colors[fmt.Sprintf("tools[%d].pulse_in", i)] = t.PulseIn
	}
	for name, hex := range colors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s color %q: %v", ErrInvalidConfig, name, hex, err)
		}
	}
	return nil
}
