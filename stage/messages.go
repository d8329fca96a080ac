package stage

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join is issued once after the viewer's hello is parsed.
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	ViewerID  string
	SessionID string
}

// Leave is issued on disconnect.
type Leave struct {
	ViewerID string
}
