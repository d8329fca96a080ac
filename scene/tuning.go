package scene

import "math"

const (
	BlockCount    = 6
	BlockOriginX  = -5.0
	BlockSpacing  = 2.0
	BlockWidth    = 1.6
	BlockHeight   = 1.0
	BlockDepth    = 1.0
	RailY         = -0.25
	RailRadius    = 0.05
	RailPadding   = 1.2  // rail overhang past the outer block centers
	TokenCount    = 15
	TokenSpacing  = 0.35
	TokenLeadIn   = 0.8  // gap between the first queued token and the first block
	TokenRadius   = 0.06
	TokenSpread   = 0.05 // radius varies ±5% per token
	WrapMargin    = 0.8  // tokens wrap this far past the last block
	SpanPadding   = 2.0
	ToolRing      = 0.5
	ToolTube      = 0.12
	GlowBuff      = 0.08
	HaloBuff      = 0.15
	LinkRadius    = 0.025
	PulseRadius   = 0.06
	ShadowY       = -0.32
	ShadowStretch = 1.8 // ground ellipse is wide
	ShadowFlatten = 0.6 // and shallow
	ShadowBase    = 0.35
	Epsilon       = 1e-6
)

const (
	SpeedMin      = 1.45
	SpeedMax      = 1.75
	SpeedConstant = 1.6  // minimal detail has no per-token variation
	SpeedWobble   = 0.04 // ±4% slow sine on speed
	WobbleFreq    = 0.9
	JitterMin     = 0.002
	JitterMax     = 0.006
	JitterYFreq   = 2.0
	JitterZFreq   = 1.7
	BaseJitterY   = 0.01 // spawn-time offsets, overwritten on the first stream frame
	BaseJitterZ   = 0.02
)

const (
	CameraPhi       = 70 * math.Pi / 180
	CameraTheta     = 60 * math.Pi / 180
	CameraZoom      = 1.0
	CameraOrbitRate = 0.05 // rad/s ambient rotation

	LinkOpacity        = 0.22
	LinkOpacityMinimal = 0.35
	PathOpacity        = 0.25
	BlockShadowOpacity = 0.18
	TokenShadowOpacity = 0.15
	LabelOffsetUp      = 0.18
	LabelOffsetOut     = 0.25
)
