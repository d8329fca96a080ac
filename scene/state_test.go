package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsHiddenObjects(t *testing.T) {
	c := New(Default())

	for _, id := range []string{BlockID(0), RailID, TokenID(14), ToolID(2), LabelID(1), LinkID(0),
		PauseID, CaptionPauseID, CaptionResumeID, PathID(DirOut, 0), PulseID(DirIn, 2), GlowID(1), HaloID,
		ShadowID(BlockID(3)), ShadowID(TokenID(0))} {
		o, ok := c.Object(id)
		require.True(t, ok, id)
		assert.False(t, o.Visible, id)
	}
	assert.Empty(t, c.Snapshot().Objects)
	assert.Len(t, c.ByKind(KindBlock), 6)
	assert.Len(t, c.ByKind(KindToken), 15)
}

func TestNewMinimalSkipsShadowsAndPaths(t *testing.T) {
	cfg := Default()
	cfg.Detail = DetailMinimal
	c := New(cfg)

	assert.Empty(t, c.ByKind(KindShadow))
	assert.Empty(t, c.ByKind(KindPath))
	assert.Len(t, c.ByKind(KindPulse), 6)
	assert.False(t, c.Attached(UpdaterShadows))

	link, _ := c.Object(LinkID(0))
	assert.Equal(t, LinkOpacityMinimal, link.Rest)
}

func TestAttachDetachUpdaters(t *testing.T) {
	c := New(Default())
	assert.True(t, c.Attached(UpdaterCamera))
	assert.True(t, c.Attached(UpdaterShadows))
	assert.False(t, c.Attached(UpdaterTokens))

	require.NoError(t, c.Attach(UpdaterTokens))
	require.NoError(t, c.Attach(UpdaterTokens))
	assert.True(t, c.Attached(UpdaterTokens))

	require.NoError(t, c.Detach(UpdaterTokens))
	assert.False(t, c.Attached(UpdaterTokens))

	assert.ErrorIs(t, c.Attach("nope"), ErrUnknownUpdater)
}

func TestTickMovesTokensOnlyWhenStreaming(t *testing.T) {
	c := New(Default())
	before, _ := c.Object(TokenID(0))
	x0 := before.Pos.X

	c.Tick(0.1)
	assert.Equal(t, x0, before.Pos.X)
	assert.Equal(t, 1, c.Frame)
	assert.InDelta(t, 0.1, c.Clock, 1e-12)

	require.NoError(t, c.Attach(UpdaterTokens))
	c.Tick(0.1)
	assert.Greater(t, before.Pos.X, x0)
	assert.Equal(t, c.Tokens[0].Pos, before.Pos)
}

func TestShadowsFollowTokens(t *testing.T) {
	c := New(Default())
	require.NoError(t, c.Attach(UpdaterTokens))
	for i := 0; i < 10; i++ {
		c.Tick(1.0 / 30)
	}
	tok, _ := c.Object(TokenID(4))
	sh, _ := c.Object(ShadowID(TokenID(4)))
	assert.Equal(t, tok.Pos.X, sh.Pos.X)
	assert.Equal(t, ShadowY, sh.Pos.Y)
	assert.Zero(t, sh.Pos.Z)
}

func TestCameraOrbits(t *testing.T) {
	c := New(Default())
	c.Tick(2)
	assert.InDelta(t, CameraTheta+2*CameraOrbitRate, c.Camera.Theta, 1e-12)
}

func TestSnapshotCopiesVisibleObjects(t *testing.T) {
	c := New(Default())
	o, _ := c.Object(PathID(DirOut, 1))
	o.Visible = true

	s := c.Snapshot()
	require.Len(t, s.Objects, 1)
	s.Objects[0].Controls[0].X = 999
	assert.NotEqual(t, 999.0, o.Controls[0].X)
}

func TestPositionsIncludeTokens(t *testing.T) {
	c := New(Default())
	pos := c.Positions()
	assert.Equal(t, c.Tokens[3].Pos, pos[TokenID(3)])
	assert.Len(t, pos, 6+3+15)
}

func TestPulsePathDirection(t *testing.T) {
	c := New(Default())
	out := c.PulsePath(DirOut, 0)
	in := c.PulsePath(DirIn, 0)
	assert.Equal(t, PathCurve, out.Kind)
	assert.Equal(t, c.Layout.Hub, out.From)
	assert.Equal(t, out.From, in.To)
	assert.Equal(t, out.To, in.From)
}
