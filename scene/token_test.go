package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestWrapSubtractsSpan(t *testing.T) {
	assert.InDelta(t, -5.7, Wrap(6.3, 6.2, 12.0), 1e-9)
	assert.Equal(t, 6.1, Wrap(6.1, 6.2, 12.0))
	assert.InDelta(t, -5.8, Wrap(6.2, 6.2, 12.0), 1e-9)
}

func TestWrapZeroSpanLeavesValue(t *testing.T) {
	assert.Equal(t, 9.0, Wrap(9.0, 1.0, 0))
}

func TestNewTokensDeterministic(t *testing.T) {
	cfg := Default()
	l := Build(cfg)
	a := NewTokens(cfg, l)
	b := NewTokens(cfg, l)
	require.Len(t, a, TokenCount)
	assert.Equal(t, a, b)

	cfg.Seed = 7
	c := NewTokens(cfg, l)
	assert.NotEqual(t, a[0].Speed, c[0].Speed)
}

func TestNewTokensQueueLeftOfBlocks(t *testing.T) {
	cfg := Default()
	tokens := NewTokens(cfg, Build(cfg))
	for k, tok := range tokens {
		assert.InDelta(t, -5.8-float64(k)*0.35, tok.Pos.X, 1e-9)
		assert.GreaterOrEqual(t, tok.Speed, SpeedMin)
		assert.LessOrEqual(t, tok.Speed, SpeedMax)
		assert.GreaterOrEqual(t, tok.YJitter, JitterMin)
		assert.LessOrEqual(t, tok.YJitter, JitterMax)
		assert.GreaterOrEqual(t, tok.ZJitter, JitterMin)
		assert.LessOrEqual(t, tok.ZJitter, JitterMax)
	}
}

func TestNewTokensMinimalAreUniform(t *testing.T) {
	cfg := Default()
	cfg.Detail = DetailMinimal
	for _, tok := range NewTokens(cfg, Build(cfg)) {
		assert.Equal(t, SpeedConstant, tok.Speed)
		assert.Zero(t, tok.YJitter)
		assert.Zero(t, tok.ZJitter)
		assert.Equal(t, TokenRadius, tok.Radius)
		assert.Equal(t, RailY, tok.Pos.Y)
	}
}

func TestStepTokensDoesNotMutateInput(t *testing.T) {
	in := []Token{{Pos: r3.Vec{X: 0}, Speed: 1}}
	out := StepTokens(in, Motion{WrapRight: 10, Span: 20}, 0, 0.5)
	assert.Zero(t, in[0].Pos.X)
	assert.InDelta(t, 0.5, out[0].Pos.X, 1e-12)
}

func TestStepTokensSpeedWobble(t *testing.T) {
	m := Motion{WrapRight: 100, Span: 200, Wobble: 0.04, WobbleFreq: 0.9}
	tok := []Token{{Speed: 1.5, Phase: math.Pi / 2}}
	// sin(pi/2) = 1, so speed peaks at +4%.
	out := StepTokens(tok, m, 0, 1)
	assert.InDelta(t, 1.5*1.04, out[0].Pos.X, 1e-12)
}

func TestStepTokensWrapsPastThreshold(t *testing.T) {
	m := Motion{WrapRight: 6.2, Span: 12.0}
	out := StepTokens([]Token{{Pos: r3.Vec{X: 6.3}}}, m, 0, 0.01)
	assert.InDelta(t, -5.7, out[0].Pos.X, 1e-9)
}

func TestStepTokensStayInWrapRange(t *testing.T) {
	cfg := Default()
	l := Build(cfg)
	m := MotionFor(cfg, l)
	tokens := NewTokens(cfg, l)
	for i := range tokens {
		tokens[i].Pos.X = l.WrapLeft() + float64(i)*0.7
	}

	dt := 1.0 / 30
	elapsed := 0.0
	for frame := 0; frame < 900; frame++ {
		elapsed += dt
		tokens = StepTokens(tokens, m, elapsed, dt)
		for _, tok := range tokens {
			require.GreaterOrEqual(t, tok.Pos.X, l.WrapLeft())
			require.Less(t, tok.Pos.X, l.WrapRight)
		}
	}
}

func TestStepTokensJitterBounded(t *testing.T) {
	cfg := Default()
	l := Build(cfg)
	m := MotionFor(cfg, l)
	tokens := NewTokens(cfg, l)

	dt := 1.0 / 60
	elapsed := 0.0
	for frame := 0; frame < 2000; frame++ {
		elapsed += dt
		tokens = StepTokens(tokens, m, elapsed, dt)
		for _, tok := range tokens {
			require.LessOrEqual(t, math.Abs(tok.Pos.Y-m.RailY), tok.YJitter+1e-15)
			require.LessOrEqual(t, math.Abs(tok.Pos.Z-m.RailZ), tok.ZJitter+1e-15)
			require.LessOrEqual(t, tok.YJitter, cfg.Motion.JitterMax)
			require.LessOrEqual(t, tok.ZJitter, cfg.Motion.JitterMax)
		}
	}
}

func TestStepTokensDeterministic(t *testing.T) {
	cfg := Default()
	l := Build(cfg)
	m := MotionFor(cfg, l)
	run := func() []Token {
		tokens := NewTokens(cfg, l)
		elapsed := 0.0
		for i := 0; i < 100; i++ {
			elapsed += 0.02
			tokens = StepTokens(tokens, m, elapsed, 0.02)
		}
		return tokens
	}
	assert.Equal(t, run(), run())
}
