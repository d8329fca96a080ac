package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"choreo/export"
	"choreo/protocol"
	"choreo/scene"
	"choreo/stage"
	"choreo/timeline"
)

var errBadHello = errors.New("bad hello")

type Server struct {
	mgr      *stage.Manager
	scene    scene.Config
	log      *zap.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// NewServer wires the websocket endpoint and the HTTP API onto one mux. An empty
// origins list accepts any origin.
func NewServer(mgr *stage.Manager, cfg scene.Config, origins []string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		mgr:   mgr,
		scene: cfg,
		log:   log,
		mux:   http.NewServeMux(),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}
	s.mux.HandleFunc("GET /ws", s.handleWS)
	s.mux.HandleFunc("GET /stages", s.handleListStages)
	s.mux.HandleFunc("POST /stages", s.handleCreateStage)
	s.mux.HandleFunc("GET /timeline", s.handleTimeline)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("stage")
	if code == "" {
		http.Error(w, "missing stage code", http.StatusBadRequest)
		return
	}
	st, err := s.mgr.GetOrCreateStage(code)
	if err != nil {
		s.log.Error("get stage", zap.String("stage", code), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Upgrade HTTP -> WebSocket
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade", zap.Error(err))
		return
	}
	conn := &wsConn{c: c}
	defer conn.Close()

	c.SetReadLimit(readLimit)
	hello, err := readHello(c)
	if err != nil {
		s.log.Info("rejecting viewer", zap.String("stage", code), zap.Error(err))
		_ = conn.closeWith(websocket.ClosePolicyViolation, err.Error())
		return
	}

	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	reply := make(chan stage.JoinResult, 1)
	select {
	case st.Inbox <- stage.Join{Conn: conn, Name: hello.Name, Reply: reply}:
	case <-st.Done():
		return
	}
	var res stage.JoinResult
	select {
	case res = <-reply:
	case <-st.Done():
		return
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Viewers have nothing to say after hello; reading only drives control frames.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case st.Inbox <- stage.Leave{ViewerID: res.ViewerID}:
	case <-st.Done():
	}
}

func readHello(c *websocket.Conn) (protocol.Hello, error) {
	_ = c.SetReadDeadline(time.Now().Add(helloWait))
	_, b, err := c.ReadMessage()
	if err != nil {
		return protocol.Hello{}, fmt.Errorf("read hello: %w", err)
	}
	env, err := protocol.DecodeEnvelope(b)
	if err != nil {
		return protocol.Hello{}, fmt.Errorf("%w: %v", errBadHello, err)
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, fmt.Errorf("%w: got %q", errBadHello, env.T)
	}
	h, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		return protocol.Hello{}, fmt.Errorf("%w: %v", errBadHello, err)
	}
	if h.V != protocol.Version {
		return protocol.Hello{}, fmt.Errorf("%w: version %d, want %d", errBadHello, h.V, protocol.Version)
	}
	return h, nil
}

func (s *Server) handleListStages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mgr.ListStages())
}

func (s *Server) handleCreateStage(w http.ResponseWriter, _ *http.Request) {
	code, err := s.mgr.CreateStage()
	if err != nil {
		s.log.Error("create stage", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

// handleTimeline serves the beat list as YAML. ?detail= picks the detail level.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	cfg := s.scene
	if v := r.URL.Query().Get("detail"); v != "" {
		d, err := scene.ParseDetail(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg.Detail = d
	}
	beats := timeline.Script(scene.New(cfg))
	w.Header().Set("Content-Type", "application/yaml")
	if err := export.WriteTimeline(w, beats); err != nil {
		s.log.Error("write timeline", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
