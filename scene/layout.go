package scene

import (
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

type Tool struct {
	Name string
	Pos  r3.Vec
	Spec ToolSpec
}

// Layout is the static part of the scene: where blocks, tools and the rail sit.
// Token positions live on the Context since they move every frame.
type Layout struct {
	Blocks    []r3.Vec
	Center    int
	Tools     []Tool
	Rail      Segment
	Hub       r3.Vec // where tool links leave the rail under the center block
	WrapRight float64
	Span      float64
}

// BlockPositions lays n blocks along x, spacing apart, starting at origin. Depth
// cycles through stagger; an empty stagger keeps every block at z=0.
func BlockPositions(n int, origin, spacing float64, stagger []float64) []r3.Vec {
	if n <= 0 {
		return nil
	}
	out := make([]r3.Vec, n)
	for i := range out {
		z := 0.0
		if len(stagger) > 0 {
			z = stagger[i%len(stagger)]
		}
		out[i] = r3.Vec{X: origin + float64(i)*spacing, Y: 0, Z: z}
	}
	return out
}

func ToolPositions(center r3.Vec, offsets []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(offsets))
	for i, off := range offsets {
		out[i] = r3.Add(center, off)
	}
	return out
}

func Build(cfg Config) Layout {
	lc := cfg.Layout
	var stagger []float64
	if cfg.Detail >= DetailDefault {
		stagger = lc.Stagger
	}
	blocks := BlockPositions(lc.Blocks, lc.OriginX, lc.Spacing, stagger)

	l := Layout{Blocks: blocks}
	if len(blocks) == 0 {
		return l
	}
	l.Center = len(blocks) / 2
	center := blocks[l.Center]

	offsets := make([]r3.Vec, len(lc.Tools))
	for i, t := range lc.Tools {
		offsets[i] = t.Offset
	}
	for i, pos := range ToolPositions(center, offsets) {
		l.Tools = append(l.Tools, Tool{Name: lc.Tools[i].Name, Pos: pos, Spec: lc.Tools[i]})
	}

	first, last := blocks[0].X, blocks[len(blocks)-1].X
	half := (last - first + lc.RailPadding) / 2
	mid := (first + last) / 2
	l.Rail = Segment{
		From: r3.Vec{X: mid - half, Y: lc.RailY},
		To:   r3.Vec{X: mid + half, Y: lc.RailY},
	}
	l.Hub = r3.Add(center, r3.Vec{Y: lc.RailY})
	l.WrapRight = last + lc.WrapMargin
	l.Span = float64(len(blocks)-1)*lc.Spacing + lc.SpanPadding
	return l
}

func (l Layout) WrapLeft() float64 { return l.WrapRight - l.Span }

func (l Layout) CenterBlock() r3.Vec {
	if len(l.Blocks) == 0 {
		return r3.Vec{}
	}
	return l.Blocks[l.Center]
}

// Positions maps the static entities by name.
func (l Layout) Positions() map[string]r3.Vec {
	out := make(map[string]r3.Vec, len(l.Blocks)+len(l.Tools))
	for i, p := range l.Blocks {
		out[BlockID(i)] = p
	}
	for i, t := range l.Tools {
		out[ToolID(i)] = t.Pos
	}
	return out
}

const (
	RailID          = "rail"
	PauseID         = "pause"
	HaloID          = "halo"
	CaptionPauseID  = "caption/pause"
	CaptionResumeID = "caption/resume"

	DirOut = "out"
	DirIn  = "in"
)

func BlockID(i int) string     { return "block/" + strconv.Itoa(i) }
func ToolID(i int) string      { return "tool/" + strconv.Itoa(i) }
func TokenID(i int) string     { return "token/" + strconv.Itoa(i) }
func LabelID(i int) string     { return "label/" + strconv.Itoa(i) }
func ConnectorID(i int) string { return "connector/" + strconv.Itoa(i) }
func LinkID(i int) string      { return "link/" + strconv.Itoa(i) }
func GlowID(i int) string      { return "glow/" + strconv.Itoa(i) }
func ShadowID(target string) string    { return "shadow/" + target }
func PathID(dir string, i int) string  { return "path/" + dir + "/" + strconv.Itoa(i) }
func PulseID(dir string, i int) string { return "pulse/" + dir + "/" + strconv.Itoa(i) }
