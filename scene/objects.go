package scene

import "gonum.org/v1/gonum/spatial/r3"

func (c *Context) populate() {
	th := c.Config.Theme
	l := c.Layout

	for i, p := range l.Blocks {
		c.add(&Object{
			ID: BlockID(i), Kind: KindBlock, Pos: p,
			Size:  r3.Vec{X: BlockWidth, Y: BlockHeight, Z: BlockDepth},
			Color: th.BlockFill, Edge: th.BlockEdge, Rest: 1, Drawn: 1,
		})
	}
	if c.Config.Shadows() {
		for i := range l.Blocks {
			c.addShadow(BlockID(i), 1.2, BlockShadowOpacity)
		}
	}

	c.add(&Object{
		ID: RailID, Kind: KindRail, Pos: l.Rail.Mid(),
		Size:  r3.Vec{X: l.Rail.Length()},
		From:  l.Rail.From, To: l.Rail.To, Axis: axisX,
		Radius: RailRadius, Color: th.Rail, Rest: 1, Drawn: 1,
	})

	for i, t := range c.Tokens {
		c.add(&Object{
			ID: TokenID(i), Kind: KindToken, Pos: t.Pos, Radius: t.Radius,
			Color: th.Token, Edge: "#ffffff", Rest: 1, Drawn: 1,
		})
	}
	if c.Config.Shadows() {
		for i := range c.Tokens {
			c.addShadow(TokenID(i), 0.35, TokenShadowOpacity)
		}
	}

	for i, t := range l.Tools {
		c.add(&Object{
			ID: ToolID(i), Kind: KindTool, Pos: t.Pos, Radius: ToolRing,
			Size:  r3.Vec{X: ToolRing, Y: ToolTube},
			Color: t.Spec.Ring, Edge: "#1a9e67", Label: t.Name, Rest: 1, Drawn: 1,
		})
		tag := r3.Add(t.Pos, r3.Vec{Y: LabelOffsetUp, Z: LabelOffsetOut})
		c.add(&Object{
			ID: LabelID(i), Kind: KindLabel, Pos: tag, Label: t.Name,
			Color: th.LabelText, Edge: th.LabelBG, Facing: true, Rest: 1, Drawn: 1,
		})
		line := Segment{From: r3.Add(tag, r3.Vec{Y: -0.1}), To: t.Pos}
		c.add(&Object{
			ID: ConnectorID(i), Kind: KindConnector, Pos: line.Mid(),
			From: line.From, To: line.To, Color: "#3a5161", Rest: 0.6, Drawn: 1,
		})
	}

	for i, t := range l.Tools {
		link := NewConnector(l.Hub, t.Pos, LinkRadius)
		c.add(&Object{
			ID: LinkID(i), Kind: KindLink, Pos: link.Center,
			Size:   r3.Vec{Z: link.Height},
			Radius: link.Radius, From: link.From, To: link.To,
			Axis: link.Axis, Angle: link.Angle,
			Color: th.Link, Rest: c.Config.LinkOpacity(), Drawn: 1,
		})
	}

	center := l.CenterBlock()
	c.add(&Object{
		ID: PauseID, Kind: KindIcon, Pos: r3.Add(center, r3.Vec{Z: 0.6}),
		Size:  r3.Vec{X: 1.1, Y: 0.7},
		Color: th.PausePlate, Edge: th.PauseEdge, Label: "pause", Rest: 1, Drawn: 1,
	})
	c.add(&Object{
		ID: CaptionPauseID, Kind: KindCaption, Pos: r3.Add(center, r3.Vec{Y: 0.9, Z: 0.6}),
		Label: c.Config.Captions.Pause, Color: th.Caption, Facing: true, Rest: 1, Drawn: 1,
	})
	c.add(&Object{
		ID: CaptionResumeID, Kind: KindCaption, Pos: r3.Vec{Y: -3.5},
		Label: c.Config.Captions.Resume, Color: th.Caption, Fixed: true, Rest: 1, Drawn: 1,
	})

	for _, dir := range []string{DirOut, DirIn} {
		for i, t := range l.Tools {
			spec := c.PulsePath(dir, i)
			if spec.Kind == PathCurve {
				curve := NewCurve(spec.From, spec.To, spec.ArchOut, spec.ArchDown)
				c.add(&Object{
					ID: PathID(dir, i), Kind: KindPath, Pos: curve.At(0.5),
					From: spec.From, To: spec.To, Controls: curve.Controls(),
					Color: th.Link, Rest: PathOpacity, Drawn: 1,
				})
			}
			color := t.Spec.PulseOut
			if dir == DirIn {
				color = t.Spec.PulseIn
			}
			c.add(&Object{
				ID: PulseID(dir, i), Kind: KindPulse, Pos: spec.From, Radius: PulseRadius,
				Color: color, Edge: "#ffffff", Rest: 1, Drawn: 1,
			})
		}
	}

	glowSide := 2 * (ToolRing + ToolTube + GlowBuff)
	for i, t := range l.Tools {
		c.add(&Object{
			ID: GlowID(i), Kind: KindGlow, Pos: t.Pos,
			Size:  r3.Vec{X: glowSide, Y: glowSide},
			Color: t.Spec.Glow, Rest: 1, Drawn: 1,
		})
	}

	c.add(&Object{
		ID: HaloID, Kind: KindHalo, Pos: center,
		Size:  r3.Vec{X: BlockWidth + 2*HaloBuff, Y: BlockHeight + 2*HaloBuff},
		Color: th.Halo, Rest: 1, Drawn: 1,
	})
}

func (c *Context) addShadow(target string, scale, opacity float64) {
	t := c.objects[target]
	r := ShadowBase * scale
	c.add(&Object{
		ID: ShadowID(target), Kind: KindShadow, Follow: target,
		Pos:   r3.Vec{X: t.Pos.X, Y: ShadowY},
		Size:  r3.Vec{X: r * ShadowStretch * scale, Y: r * ShadowFlatten * scale},
		Color: c.Config.Theme.Shadow, Rest: opacity, Drawn: 1,
	})
}
