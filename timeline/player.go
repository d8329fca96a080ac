package timeline

import (
	"context"
	"errors"
	"fmt"

	"choreo/scene"
)

var ErrInvalidFrameRate = errors.New("frame rate must be positive")

// Player drives a scene through a beat list one frame at a time. Each frame it
// advances the clock, applies the in-flight animations at the eased progress of
// the current beat, then runs the scene's attached updaters.
type Player struct {
	sc    *scene.Context
	beats []Beat
	fps   int
	dt    float64

	cur     int
	started bool
	tick    int
	ticks   int
	ease    Easing
	active  []*animation
}

func NewPlayer(sc *scene.Context, beats []Beat, fps int) (*Player, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameRate, fps)
	}
	if err := Validate(sc, beats); err != nil {
		return nil, err
	}
	return &Player{
		sc:    sc,
		beats: beats,
		fps:   fps,
		dt:    1 / float64(fps),
	}, nil
}

func (p *Player) Scene() *scene.Context { return p.sc }
func (p *Player) FrameRate() int        { return p.fps }
func (p *Player) Frames() int           { return FrameCount(p.beats, p.fps) }
func (p *Player) Beats() []Beat         { return p.beats }

// Done reports whether every beat has been played.
func (p *Player) Done() bool { return !p.started && p.cur >= len(p.beats) }

// Current returns the beat being played, if any.
func (p *Player) Current() (Beat, bool) {
	if p.cur >= len(p.beats) {
		return Beat{}, false
	}
	return p.beats[p.cur], true
}

// Step renders one frame. It returns false once the timeline is exhausted.
func (p *Player) Step() bool {
	if !p.enter() {
		return false
	}
	p.sc.Advance(p.dt)
	p.tick++
	alpha := p.ease(float64(p.tick) / float64(p.ticks))
	for _, a := range p.active {
		a.apply(alpha)
	}
	if p.tick >= p.ticks {
		p.finishBeat()
	}
	p.sc.Update(p.dt)
	return true
}

// Run steps until the timeline ends or ctx is cancelled, handing every frame to sink.
func (p *Player) Run(ctx context.Context, sink func(scene.Snapshot) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !p.Step() {
			return nil
		}
		if err := sink(p.sc.Snapshot()); err != nil {
			return err
		}
	}
}

// enter makes sure a beat with frames left is active, applying any instant beats on
// the way.
func (p *Player) enter() bool {
	for !p.started {
		if p.cur >= len(p.beats) {
			return false
		}
		b := p.beats[p.cur]
		if b.Phase != "" {
			p.sc.Phase = b.Phase
		}
		p.ease, _ = Lookup(b.Easing)
		p.active = p.active[:0]
		for _, ch := range b.Changes {
			p.active = append(p.active, begin(p.sc, ch)...)
		}
		p.tick = 0
		p.ticks = b.Frames(p.fps)
		if p.ticks == 0 {
			p.finishBeat()
			continue
		}
		p.started = true
	}
	return true
}

func (p *Player) finishBeat() {
	for _, a := range p.active {
		a.finish()
	}
	p.active = p.active[:0]
	p.started = false
	p.cur++
}
