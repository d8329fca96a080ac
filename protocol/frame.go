package protocol

import (
	"gonum.org/v1/gonum/spatial/r3"

	"choreo/scene"
)

// NewFrame flattens a scene snapshot into its wire form.
func NewFrame(s scene.Snapshot) Frame {
	f := Frame{
		Index:   s.Frame,
		Time:    s.Time,
		Phase:   s.Phase,
		Camera:  CameraSnapshot{Phi: s.Camera.Phi, Theta: s.Camera.Theta, Zoom: s.Camera.Zoom},
		Objects: make([]ObjectSnapshot, 0, len(s.Objects)),
	}
	for _, o := range s.Objects {
		os := ObjectSnapshot{
			ID:      o.ID,
			Kind:    string(o.Kind),
			X:       o.Pos.X,
			Y:       o.Pos.Y,
			Z:       o.Pos.Z,
			Radius:  o.Radius,
			Color:   o.Color,
			Edge:    o.Edge,
			Opacity: o.Opacity,
			Drawn:   o.Drawn,
			Label:   o.Label,
			Fixed:   o.Fixed,
			Facing:  o.Facing,
			Angle:   o.Angle,
		}
		if o.Size != (r3.Vec{}) {
			v := vec(o.Size)
			os.Size = &v
		}
		if o.From != o.To {
			line := [2][3]float64{vec(o.From), vec(o.To)}
			os.Line = &line
		}
		for _, c := range o.Controls {
			os.Controls = append(os.Controls, vec(c))
		}
		if o.Angle != 0 {
			axis := vec(o.Axis)
			os.Axis = &axis
		}
		f.Objects = append(f.Objects, os)
	}
	return f
}

func vec(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
