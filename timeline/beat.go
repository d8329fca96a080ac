package timeline

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"choreo/scene"
)

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrInvalidBeat   = errors.New("invalid beat")
)

type Op string

const (
	OpFadeIn   Op = "fade-in"
	OpFadeOut  Op = "fade-out"
	OpColor    Op = "color"
	OpCreate   Op = "create"
	OpUncreate Op = "uncreate"
	OpMove     Op = "move-along"
	OpAdd      Op = "add"
	OpRemove   Op = "remove"
	OpAttach   Op = "attach"
	OpDetach   Op = "detach"
)

// Change is one property change applied to every target over the beat.
type Change struct {
	Op      Op              `yaml:"op"`
	Targets []string        `yaml:"targets,omitempty"`
	Shift   r3.Vec          `yaml:"shift,omitempty"`
	Color   string          `yaml:"color,omitempty"`
	Path    *scene.PathSpec `yaml:"path,omitempty"`
	Updater string          `yaml:"updater,omitempty"`
}

// Beat is one step of the timeline. A beat without changes is a wait; a beat with
// zero duration applies at once without taking a frame.
type Beat struct {
	Name     string   `yaml:"name"`
	Phase    string   `yaml:"phase,omitempty"`
	Changes  []Change `yaml:"changes,omitempty"`
	Duration float64  `yaml:"duration"`
	Easing   string   `yaml:"easing,omitempty"`
}

func Wait(name string, d float64) Beat {
	return Beat{Name: name, Duration: d, Easing: EaseLinear}
}

func (b Beat) Instant() bool { return b.Duration == 0 }

// Frames is how many frames the beat occupies at fps.
func (b Beat) Frames(fps int) int {
	if b.Duration <= 0 || fps <= 0 {
		return 0
	}
	n := int(b.Duration*float64(fps) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

func FadeIn(shift r3.Vec, ids ...string) Change {
	return Change{Op: OpFadeIn, Targets: ids, Shift: shift}
}

func FadeOut(shift r3.Vec, ids ...string) Change {
	return Change{Op: OpFadeOut, Targets: ids, Shift: shift}
}

func SetColor(color string, ids ...string) Change {
	return Change{Op: OpColor, Targets: ids, Color: color}
}

func Create(ids ...string) Change   { return Change{Op: OpCreate, Targets: ids} }
func Uncreate(ids ...string) Change { return Change{Op: OpUncreate, Targets: ids} }
func Add(ids ...string) Change      { return Change{Op: OpAdd, Targets: ids} }
func Remove(ids ...string) Change   { return Change{Op: OpRemove, Targets: ids} }

func MoveAlong(id string, path scene.PathSpec) Change {
	return Change{Op: OpMove, Targets: []string{id}, Path: &path}
}

func Attach(name string) Change { return Change{Op: OpAttach, Updater: name} }
func Detach(name string) Change { return Change{Op: OpDetach, Updater: name} }

// Validate checks every beat against the scene it will run on.
func Validate(sc *scene.Context, beats []Beat) error {
	for i, b := range beats {
		if b.Duration < 0 {
			return fmt.Errorf("%w: beat %d (%s) has negative duration %v", ErrInvalidBeat, i, b.Name, b.Duration)
		}
		if _, err := Lookup(b.Easing); err != nil {
			return fmt.Errorf("beat %d (%s): %w", i, b.Name, err)
		}
		for _, ch := range b.Changes {
			if err := validateChange(sc, ch); err != nil {
				return fmt.Errorf("beat %d (%s): %w", i, b.Name, err)
			}
		}
	}
	return nil
}

func validateChange(sc *scene.Context, ch Change) error {
	switch ch.Op {
	case OpAttach, OpDetach:
		if !sc.HasUpdater(ch.Updater) {
			return fmt.Errorf("%w: updater %q", ErrUnknownTarget, ch.Updater)
		}
		return nil
	case OpMove:
		if ch.Path == nil {
			return fmt.Errorf("%w: %s without a path", ErrInvalidBeat, ch.Op)
		}
	case OpColor:
		if _, err := colorful.Hex(ch.Color); err != nil {
			return fmt.Errorf("%w: %s color %q: %v", ErrInvalidBeat, ch.Op, ch.Color, err)
		}
	case OpFadeIn, OpFadeOut, OpCreate, OpUncreate, OpAdd, OpRemove:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidBeat, ch.Op)
	}
	for _, id := range ch.Targets {
		if _, ok := sc.Object(id); !ok {
			return fmt.Errorf("%w: object %q", ErrUnknownTarget, id)
		}
	}
	return nil
}

func TotalDuration(beats []Beat) float64 {
	total := 0.0
	for _, b := range beats {
		total += b.Duration
	}
	return total
}

// FrameCount is the number of frames a player renders for beats at fps.
func FrameCount(beats []Beat, fps int) int {
	n := 0
	for _, b := range beats {
		n += b.Frames(fps)
	}
	return n
}
