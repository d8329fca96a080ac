package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	helloWait  = 10 * time.Second
	readLimit  = 1 << 20 // 1MB
)

// wsConn serializes writes to a websocket so the stage loop and the ping loop can
// share it.
type wsConn struct {
	mu     sync.Mutex
	c      *websocket.Conn
	closed bool
}

func (w *wsConn) Send(b []byte) error {
	return w.write(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	return w.write(websocket.PingMessage, nil)
}

func (w *wsConn) write(kind int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return websocket.ErrCloseSent
	}
	_ = w.c.SetWriteDeadline(time.Now().Add(writeWait))
	return w.c.WriteMessage(kind, b)
}

func (w *wsConn) Close() error {
	return w.closeWith(websocket.CloseNormalClosure, "")
}

func (w *wsConn) closeWith(code int, reason string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	msg := websocket.FormatCloseMessage(code, reason)
	_ = w.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return w.c.Close()
}
