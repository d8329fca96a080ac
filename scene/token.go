package scene

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Token is one marker of streamed model output riding the rail.
type Token struct {
	ID      int
	Pos     r3.Vec
	Speed   float64 // base speed, units/s
	Phase   float64
	YJitter float64
	ZJitter float64
	Radius  float64
}

// Motion holds everything StepTokens needs besides the tokens and the clock.
type Motion struct {
	RailY      float64
	RailZ      float64
	WrapRight  float64
	Span       float64
	Wobble     float64
	WobbleFreq float64
	YFreq      float64
	ZFreq      float64
}

func MotionFor(cfg Config, l Layout) Motion {
	m := Motion{
		RailY:      cfg.Layout.RailY,
		WrapRight:  l.WrapRight,
		Span:       l.Span,
		WobbleFreq: cfg.Motion.WobbleFreq,
		YFreq:      cfg.Motion.JitterYFreq,
		ZFreq:      cfg.Motion.JitterZFreq,
	}
	if cfg.Jitter() {
		m.Wobble = cfg.Motion.Wobble
	}
	return m
}

// NewTokens queues the stream to the left of the first block. Per-token variation is
// drawn from a source seeded with cfg.Seed so two scenes with the same config match
// frame for frame.
func NewTokens(cfg Config, l Layout) []Token {
	lc := cfg.Layout
	mc := cfg.Motion
	rng := rand.New(rand.NewSource(cfg.Seed))

	tokens := make([]Token, lc.Tokens)
	for k := range tokens {
		t := Token{
			ID:     k,
			Pos:    r3.Vec{X: lc.OriginX - lc.TokenLeadIn - float64(k)*lc.TokenSpacing, Y: lc.RailY},
			Speed:  mc.SpeedConstant,
			Radius: TokenRadius,
		}
		if cfg.Jitter() {
			t.Radius = TokenRadius * uniform(rng, 1-TokenSpread, 1+TokenSpread)
			t.Pos.Y += uniform(rng, -BaseJitterY, BaseJitterY)
			t.Pos.Z = uniform(rng, -BaseJitterZ, BaseJitterZ)
			t.Speed = uniform(rng, mc.SpeedMin, mc.SpeedMax)
			t.YJitter = uniform(rng, mc.JitterMin, mc.JitterMax)
			t.ZJitter = uniform(rng, mc.JitterMin, mc.JitterMax)
			t.Phase = uniform(rng, 0, 2*math.Pi)
		}
		tokens[k] = t
	}
	return tokens
}

// StepTokens advances every token by dt at global time elapsed and returns the new
// token table. The input slice is not modified.
func StepTokens(tokens []Token, m Motion, elapsed, dt float64) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		speed := t.Speed * (1 + m.Wobble*math.Sin(elapsed*m.WobbleFreq+t.Phase))
		t.Pos.X = Wrap(t.Pos.X+speed*dt, m.WrapRight, m.Span)
		t.Pos.Y = m.RailY + t.YJitter*math.Sin(elapsed*m.YFreq+t.Phase)
		t.Pos.Z = m.RailZ + t.ZJitter*math.Cos(elapsed*m.ZFreq+t.Phase)
		out[i] = t
	}
	return out
}

// Wrap moves x back by span until it is left of right.
func Wrap(x, right, span float64) float64 {
	if span <= 0 {
		return x
	}
	for x >= right {
		x -= span
	}
	return x
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
