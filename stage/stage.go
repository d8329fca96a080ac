package stage

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"choreo/protocol"
	"choreo/scene"
	"choreo/timeline"
)

var ErrStageNotFound = errors.New("stage not found")

// ScriptFunc builds the beat list for a freshly built scene.
type ScriptFunc func(*scene.Context) []timeline.Beat

type Options struct {
	Scene          scene.Config
	FrameHz        int
	BroadcastEvery int
	Loop           bool
	Script         ScriptFunc
	Logger         *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Scene:          scene.Default(),
		FrameHz:        protocol.FrameHz,
		BroadcastEvery: protocol.FrameHz / protocol.BroadcastHz,
		Loop:           true,
		Script:         timeline.Script,
	}
}

// Stage plays one timeline to every connected viewer. All state is owned by the Run
// goroutine; other goroutines talk to it through Inbox.
type Stage struct {
	Inbox chan any

	Code    string            // stage code (e.g. "ABC123")
	OnEmpty func(code string) // called when the last viewer leaves

	opts     Options
	log      *zap.Logger
	player   *timeline.Player
	session  string
	finished bool
	last     []byte // most recent encoded frame, replayed to late joiners
	viewers  map[string]Conn
	count    atomic.Int32
	frames   atomic.Int32

	quit     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func New(opts Options) (*Stage, error) {
	if opts.FrameHz <= 0 {
		return nil, fmt.Errorf("%w: %d", timeline.ErrInvalidFrameRate, opts.FrameHz)
	}
	if opts.BroadcastEvery <= 0 {
		opts.BroadcastEvery = 1
	}
	if opts.Script == nil {
		opts.Script = timeline.Script
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if err := opts.Scene.Validate(); err != nil {
		return nil, err
	}
	s := &Stage{
		Inbox:   make(chan any, 256),
		opts:    opts,
		log:     opts.Logger,
		viewers: make(map[string]Conn),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if err := s.restart(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stage) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Done is closed once Run has returned.
func (s *Stage) Done() <-chan struct{} { return s.done }

// NumViewers returns the current number of connected viewers.
func (s *Stage) NumViewers() int { return int(s.count.Load()) }

// Frames is the length of one run of the timeline.
func (s *Stage) Frames() int { return int(s.frames.Load()) }

func (s *Stage) Run() {
	defer close(s.done)
	ticker := time.NewTicker(time.Second / time.Duration(s.opts.FrameHz))
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			s.closeAll()
			return
		case cmd := <-s.Inbox:
			s.handleCommand(cmd)
		case <-ticker.C:
			s.step()
		}
	}
}

func (s *Stage) step() {
	if s.finished {
		return
	}
	if s.player.Step() {
		snap := s.player.Scene().Snapshot()
		b, err := protocol.Encode(protocol.MsgFrame, protocol.NewFrame(snap))
		if err != nil {
			s.log.Error("encode frame", zap.Int("frame", snap.Frame), zap.Error(err))
			return
		}
		s.last = b
		if snap.Frame%s.opts.BroadcastEvery == 0 {
			s.broadcast(b)
		}
		return
	}

	final := s.player.Scene().Frame
	b, err := protocol.Encode(protocol.MsgDone, protocol.Done{Frame: final, Loop: s.opts.Loop})
	if err == nil {
		s.broadcast(b)
	}
	s.log.Debug("timeline finished",
		zap.String("stage", s.Code),
		zap.String("session", s.session),
		zap.Int("frames", final))
	if !s.opts.Loop {
		s.finished = true
		return
	}
	if err := s.restart(); err != nil {
		s.log.Error("restart timeline", zap.String("stage", s.Code), zap.Error(err))
		s.finished = true
	}
}

// restart builds a new scene and player and starts a new session.
func (s *Stage) restart() error {
	sc := scene.New(s.opts.Scene)
	p, err := timeline.NewPlayer(sc, s.opts.Script(sc), s.opts.FrameHz)
	if err != nil {
		return fmt.Errorf("build player: %w", err)
	}
	s.player = p
	s.frames.Store(int32(p.Frames()))
	s.session = uuid.NewString()
	s.last = nil
	return nil
}

func (s *Stage) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id := uuid.NewString()
		s.viewers[id] = c.Conn
		s.count.Store(int32(len(s.viewers)))
		s.log.Info("viewer joined",
			zap.String("stage", s.Code),
			zap.String("viewer", id),
			zap.String("name", c.Name))

		welcome := protocol.Welcome{
			ViewerID:  id,
			SessionID: s.session,
			Stage:     s.Code,
			FrameHz:   s.opts.FrameHz,
			Frames:    s.player.Frames(),
		}
		if b, err := protocol.Encode(protocol.MsgWelcome, welcome); err == nil {
			if err := c.Conn.Send(b); err != nil {
				s.removeViewer(id)
			} else if s.last != nil {
				_ = c.Conn.Send(s.last)
			}
		}
		c.Reply <- JoinResult{ViewerID: id, SessionID: s.session}
	case Leave:
		s.handleLeave(c.ViewerID)
	}
}

func (s *Stage) handleLeave(id string) {
	if c, ok := s.viewers[id]; ok {
		_ = c.Close()
		delete(s.viewers, id)
		s.count.Store(int32(len(s.viewers)))
		s.log.Info("viewer left", zap.String("stage", s.Code), zap.String("viewer", id))
	}
	if len(s.viewers) == 0 && s.OnEmpty != nil && s.Code != "" {
		s.OnEmpty(s.Code)
	}
}

func (s *Stage) removeViewer(id string) {
	if c, ok := s.viewers[id]; ok {
		_ = c.Close()
	}
	delete(s.viewers, id)
	s.count.Store(int32(len(s.viewers)))
}

func (s *Stage) broadcast(b []byte) {
	var failed []string
	for id, c := range s.viewers {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		s.log.Warn("dropping viewer", zap.String("stage", s.Code), zap.String("viewer", id))
		s.removeViewer(id)
	}
}

func (s *Stage) closeAll() {
	for id := range s.viewers {
		s.removeViewer(id)
	}
}
