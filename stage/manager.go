package stage

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Info is returned by the API for the stage list.
type Info struct {
	Code    string `json:"code"`
	Viewers int    `json:"viewers"`
	Frames  int    `json:"frames"`
}

// Manager holds stages by code. Stages are created on first join or via CreateStage,
// and removed when the last viewer leaves.
type Manager struct {
	mu     sync.RWMutex
	stages map[string]*Stage
	opts   Options
	log    *zap.Logger
}

func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		stages: make(map[string]*Stage),
		opts:   opts,
		log:    opts.Logger,
	}
}

// GetOrCreateStage returns the stage for the given code, creating it if needed.
func (m *Manager) GetOrCreateStage(code string) (*Stage, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", ErrStageNotFound)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stages[code]; ok {
		return s, nil
	}
	return m.start(code)
}

func (m *Manager) Stage(code string) (*Stage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stages[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStageNotFound, code)
	}
	return s, nil
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateStage generates a unique 6-char code, starts the stage, and returns the code.
func (m *Manager) CreateStage() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.stages[code]; exists {
			continue
		}
		if _, err := m.start(code); err != nil {
			return "", err
		}
		return code, nil
	}
}

// start must be called with m.mu held.
func (m *Manager) start(code string) (*Stage, error) {
	s, err := New(m.opts)
	if err != nil {
		return nil, fmt.Errorf("create stage %s: %w", code, err)
	}
	s.Code = code
	s.OnEmpty = m.removeStage
	m.stages[code] = s
	go s.Run()
	m.log.Info("stage started", zap.String("stage", code))
	return s, nil
}

func (m *Manager) removeStage(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stages[code]; ok {
		s.Stop()
		delete(m.stages, code)
		m.log.Info("stage removed", zap.String("stage", code))
	}
}

// ListStages returns all active stages sorted by code.
func (m *Manager) ListStages() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.stages))
	for code, s := range m.stages {
		out = append(out, Info{Code: code, Viewers: s.NumViewers(), Frames: s.Frames()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// StopAll stops every stage and waits for their loops to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	stages := m.stages
	m.stages = make(map[string]*Stage)
	m.mu.Unlock()

	for _, s := range stages {
		s.Stop()
	}
	for _, s := range stages {
		<-s.Done()
	}
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
