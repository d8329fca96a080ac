package timeline

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"choreo/scene"
)

// animation drives one object through one change. from is the object as it was
// when the beat started.
type animation struct {
	op   Op
	obj  *scene.Object
	from scene.Object

	shift    r3.Vec
	path     scene.Path
	fromRGB  colorful.Color
	toRGB    colorful.Color
	colorsOK bool
}

// begin starts a change on the scene. Updater toggles happen here and return no
// animations.
func begin(sc *scene.Context, ch Change) []*animation {
	switch ch.Op {
	case OpAttach:
		_ = sc.Attach(ch.Updater)
		return nil
	case OpDetach:
		_ = sc.Detach(ch.Updater)
		return nil
	}

	var path scene.Path
	if ch.Path != nil {
		path = ch.Path.Path()
	}

	out := make([]*animation, 0, len(ch.Targets))
	for _, id := range ch.Targets {
		obj, ok := sc.Object(id)
		if !ok {
			continue
		}
		a := &animation{op: ch.Op, obj: obj, from: *obj, shift: ch.Shift, path: path}
		switch ch.Op {
		case OpFadeIn:
			obj.Visible = true
			obj.Drawn = 1
		case OpCreate:
			obj.Visible = true
			obj.Opacity = obj.Rest
		case OpMove:
			obj.Visible = true
			if obj.Opacity == 0 {
				obj.Opacity = obj.Rest
			}
		case OpColor:
			from, err1 := colorful.Hex(obj.Color)
			to, err2 := colorful.Hex(ch.Color)
			a.fromRGB, a.toRGB = from, to
			a.colorsOK = err1 == nil && err2 == nil
		}
		a.apply(0)
		out = append(out, a)
	}
	return out
}

func (a *animation) apply(alpha float64) {
	o := a.obj
	switch a.op {
	case OpFadeIn:
		o.Opacity = alpha * o.Rest
		o.Pos = r3.Sub(a.from.Pos, r3.Scale(1-alpha, a.shift))
	case OpFadeOut:
		o.Opacity = (1 - alpha) * a.from.Opacity
		o.Pos = r3.Add(a.from.Pos, r3.Scale(alpha, a.shift))
	case OpColor:
		if a.colorsOK {
			o.Color = a.fromRGB.BlendRgb(a.toRGB, alpha).Clamped().Hex()
		}
	case OpCreate:
		o.Drawn = alpha
	case OpUncreate:
		o.Drawn = 1 - alpha
	case OpMove:
		if a.path != nil {
			o.Pos = a.path.At(alpha)
		}
	case OpAdd:
		o.Visible = true
		o.Opacity = o.Rest
		o.Drawn = 1
	case OpRemove:
		o.Visible = false
	}
}

// finish snaps the object to the end state of the change.
func (a *animation) finish() {
	a.apply(1)
	o := a.obj
	switch a.op {
	case OpFadeOut:
		o.Visible = false
		o.Opacity = 0
		o.Pos = a.from.Pos
	case OpUncreate:
		o.Visible = false
		o.Drawn = 1
	case OpColor:
		if a.colorsOK {
			o.Color = a.toRGB.Hex()
		}
	}
}
