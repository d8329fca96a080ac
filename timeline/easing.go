package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrUnknownEasing = errors.New("unknown easing")

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

const (
	EaseLinear       = "linear"
	EaseSmooth       = "smooth"
	EaseThereAndBack = "there-and-back"
	EaseRushInto     = "rush-into"
	EaseRushFrom     = "rush-from"
)

var easings = map[string]Easing{
	EaseLinear:       Linear,
	EaseSmooth:       Smooth,
	EaseThereAndBack: ThereAndBack,
	EaseRushInto:     RushInto,
	EaseRushFrom:     RushFrom,
}

// Lookup resolves an easing by name. The empty name is smooth.
func Lookup(name string) (Easing, error) {
	if name == "" {
		return Smooth, nil
	}
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return e, nil
}

func Easings() []string {
	out := make([]string, 0, len(easings))
	for name := range easings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func Linear(t float64) float64 { return clamp01(t) }

const inflection = 10.0

// Smooth is a logistic ramp rescaled to pass through 0 and 1.
func Smooth(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	floor := sigmoid(-inflection / 2)
	return clamp01((sigmoid(inflection*(t-0.5)) - floor) / (1 - 2*floor))
}

func ThereAndBack(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return Smooth(2 * t)
	}
	return Smooth(2 * (1 - t))
}

func RushInto(t float64) float64 { return 2 * Smooth(clamp01(t)/2) }

func RushFrom(t float64) float64 { return 2*Smooth(clamp01(t)/2+0.5) - 1 }

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func clamp01(t float64) float64 { return math.Max(0, math.Min(1, t)) }
