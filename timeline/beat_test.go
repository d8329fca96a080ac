package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"choreo/scene"
)

func TestBeatFrames(t *testing.T) {
	assert.Equal(t, 42, Beat{Duration: 1.4}.Frames(30))
	assert.Equal(t, 0, Beat{}.Frames(30))
	assert.Equal(t, 1, Beat{Duration: 0.01}.Frames(30))
	assert.Equal(t, 0, Beat{Duration: 1}.Frames(0))
}

func TestValidate(t *testing.T) {
	sc := scene.New(scene.Default())

	cases := []struct {
		name string
		beat Beat
		want error
	}{
		{"unknown object", Beat{Name: "x", Changes: []Change{Add("block/99")}}, ErrUnknownTarget},
		{"unknown updater", Beat{Name: "x", Changes: []Change{Attach("gravity")}}, ErrUnknownTarget},
		{"unknown easing", Beat{Name: "x", Easing: "bounce"}, ErrUnknownEasing},
		{"negative duration", Beat{Name: "x", Duration: -1}, ErrInvalidBeat},
		{"move without path", Beat{Name: "x", Changes: []Change{{Op: OpMove, Targets: []string{scene.PulseID(scene.DirOut, 0)}}}}, ErrInvalidBeat},
		{"bad color", Beat{Name: "x", Changes: []Change{SetColor("teal", scene.TokenID(0))}}, ErrInvalidBeat},
		{"unknown op", Beat{Name: "x", Changes: []Change{{Op: "spin"}}}, ErrInvalidBeat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(sc, []Beat{tc.beat}), tc.want)
		})
	}

	ok := []Beat{
		{Name: "a", Duration: 1, Changes: []Change{FadeIn(r3.Vec{Z: -0.2}, scene.BlockID(0))}},
		Wait("w", 0.5),
		{Name: "b", Changes: []Change{Attach(scene.UpdaterTokens)}},
	}
	assert.NoError(t, Validate(sc, ok))
	assert.InDelta(t, 1.5, TotalDuration(ok), 1e-12)
	assert.Equal(t, 45, FrameCount(ok, 30))
}
