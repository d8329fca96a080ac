package protocol

// Hello is the first message a viewer sends after the socket opens.
type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional viewer name
}
