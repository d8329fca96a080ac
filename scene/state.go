package scene

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrUnknownUpdater = errors.New("unknown updater")

type Kind string

const (
	KindBlock     Kind = "block"
	KindShadow    Kind = "shadow"
	KindRail      Kind = "rail"
	KindToken     Kind = "token"
	KindTool      Kind = "tool"
	KindLabel     Kind = "label"
	KindConnector Kind = "connector"
	KindLink      Kind = "link"
	KindPath      Kind = "path"
	KindPulse     Kind = "pulse"
	KindGlow      Kind = "glow"
	KindHalo      Kind = "halo"
	KindIcon      Kind = "icon"
	KindCaption   Kind = "caption"
)

// Object is one node of the scene graph. Everything the timeline touches exists from
// the start with a defined position; beats only flip visibility and animate fields.
type Object struct {
	ID      string
	Kind    Kind
	Pos     r3.Vec
	Size    r3.Vec
	Radius  float64
	Color   string
	Edge    string
	Opacity float64
	Rest    float64 // opacity a fade-in settles at
	Drawn   float64 // share of the outline drawn so far
	Visible bool
	Label   string
	Follow  string // shadows track this object's x
	Fixed   bool   // pinned to the frame instead of the world
	Facing  bool   // billboards toward the camera

	// Line-like objects (rail, links, connectors, paths).
	From, To r3.Vec
	Controls []r3.Vec
	Axis     r3.Vec
	Angle    float64
}

type Camera struct {
	Phi   float64
	Theta float64
	Zoom  float64
	Rate  float64
}

// UpdateFunc mutates the context for one frame. Everything it reads is on the
// context, so it can be driven by any frame loop.
type UpdateFunc func(c *Context, dt float64)

const (
	UpdaterTokens  = "token-stream"
	UpdaterShadows = "shadows"
	UpdaterCamera  = "camera-orbit"
)

type updater struct {
	name     string
	fn       UpdateFunc
	attached bool
}

// Context is the whole mutable scene: objects, tokens, clock and camera. It is built
// once per run by New and owned by a single frame loop.
type Context struct {
	Config Config
	Layout Layout
	Motion Motion
	Tokens []Token
	Camera Camera
	Clock  float64
	Frame  int
	Phase  string

	objects  map[string]*Object
	order    []string
	updaters []*updater
}

type Snapshot struct {
	Frame   int
	Time    float64
	Phase   string
	Camera  Camera
	Objects []Object
}

func New(cfg Config) *Context {
	l := Build(cfg)
	c := &Context{
		Config:  cfg,
		Layout:  l,
		Motion:  MotionFor(cfg, l),
		Tokens:  NewTokens(cfg, l),
		Camera:  Camera{Phi: CameraPhi, Theta: CameraTheta, Zoom: CameraZoom, Rate: CameraOrbitRate},
		Phase:   "setup",
		objects: make(map[string]*Object),
	}

	c.Register(UpdaterTokens, streamTokens)
	c.Register(UpdaterShadows, followShadows)
	c.Register(UpdaterCamera, orbitCamera)
	c.populate()

	_ = c.Attach(UpdaterCamera)
	if cfg.Shadows() {
		_ = c.Attach(UpdaterShadows)
	}
	return c
}

// Register adds a detached updater. Updaters run in registration order.
func (c *Context) Register(name string, fn UpdateFunc) {
	for _, u := range c.updaters {
		if u.name == name {
			u.fn = fn
			return
		}
	}
	c.updaters = append(c.updaters, &updater{name: name, fn: fn})
}

func (c *Context) Attach(name string) error { return c.setAttached(name, true) }
func (c *Context) Detach(name string) error { return c.setAttached(name, false) }

func (c *Context) setAttached(name string, on bool) error {
	for _, u := range c.updaters {
		if u.name == name {
			u.attached = on
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownUpdater, name)
}

func (c *Context) Attached(name string) bool {
	for _, u := range c.updaters {
		if u.name == name {
			return u.attached
		}
	}
	return false
}

func (c *Context) HasUpdater(name string) bool {
	for _, u := range c.updaters {
		if u.name == name {
			return true
		}
	}
	return false
}

// Advance moves the clock forward one frame.
func (c *Context) Advance(dt float64) {
	c.Clock += dt
	c.Frame++
}

// Update runs the attached updaters once.
func (c *Context) Update(dt float64) {
	for _, u := range c.updaters {
		if u.attached {
			u.fn(c, dt)
		}
	}
}

func (c *Context) Tick(dt float64) {
	c.Advance(dt)
	c.Update(dt)
}

func (c *Context) Object(id string) (*Object, bool) {
	o, ok := c.objects[id]
	return o, ok
}

// Objects returns every object in creation order.
func (c *Context) Objects() []*Object {
	out := make([]*Object, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.objects[id])
	}
	return out
}

func (c *Context) ByKind(kind Kind) []*Object {
	var out []*Object
	for _, id := range c.order {
		if o := c.objects[id]; o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Positions maps blocks, tools and tokens by entity name.
func (c *Context) Positions() map[string]r3.Vec {
	out := c.Layout.Positions()
	for i, t := range c.Tokens {
		out[TokenID(i)] = t.Pos
	}
	return out
}

func (c *Context) Snapshot() Snapshot {
	s := Snapshot{
		Frame:  c.Frame,
		Time:   c.Clock,
		Phase:  c.Phase,
		Camera: c.Camera,
	}
	for _, id := range c.order {
		o := c.objects[id]
		if !o.Visible {
			continue
		}
		cp := *o
		if o.Controls != nil {
			cp.Controls = append([]r3.Vec(nil), o.Controls...)
		}
		s.Objects = append(s.Objects, cp)
	}
	return s
}

// PulsePath is the route a pulse takes between the hub and tool i.
func (c *Context) PulsePath(dir string, i int) PathSpec {
	t := c.Layout.Tools[i]
	from, to := c.Layout.Hub, t.Pos
	if dir == DirIn {
		from, to = to, from
	}
	if !c.Config.CurvedPaths() {
		return PathSpec{Kind: PathStraight, From: from, To: to}
	}
	return PathSpec{Kind: PathCurve, From: from, To: to, ArchOut: t.Spec.ArchOut, ArchDown: t.Spec.ArchDown}
}

func (c *Context) add(o *Object) *Object {
	if _, ok := c.objects[o.ID]; !ok {
		c.order = append(c.order, o.ID)
	}
	c.objects[o.ID] = o
	return o
}

func streamTokens(c *Context, dt float64) {
	c.Tokens = StepTokens(c.Tokens, c.Motion, c.Clock, dt)
	for i, t := range c.Tokens {
		if o, ok := c.objects[TokenID(i)]; ok {
			o.Pos = t.Pos
		}
	}
}

func followShadows(c *Context, _ float64) {
	for _, id := range c.order {
		s := c.objects[id]
		if s.Kind != KindShadow {
			continue
		}
		if target, ok := c.objects[s.Follow]; ok {
			s.Pos = r3.Vec{X: target.Pos.X, Y: ShadowY}
		}
	}
}

func orbitCamera(c *Context, dt float64) {
	c.Camera.Theta += c.Camera.Rate * dt
}
