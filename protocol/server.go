package protocol

type Welcome struct {
	ViewerID  string `json:"viewerId"`
	SessionID string `json:"sessionId"`
	Stage     string `json:"stage"`
	FrameHz   int    `json:"frameHz"`
	Frames    int    `json:"frames"`
}

type Frame struct {
	Index   int              `json:"index"`
	Time    float64          `json:"time"`
	Phase   string           `json:"phase"`
	Camera  CameraSnapshot   `json:"camera"`
	Objects []ObjectSnapshot `json:"objects"`
}

type CameraSnapshot struct {
	Phi   float64 `json:"phi"`
	Theta float64 `json:"theta"`
	Zoom  float64 `json:"zoom"`
}

type ObjectSnapshot struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Z        float64        `json:"z"`
	Size     *[3]float64    `json:"size,omitempty"`
	Radius   float64        `json:"r,omitempty"`
	Color    string         `json:"color"`
	Edge     string         `json:"edge,omitempty"`
	Opacity  float64        `json:"opacity"`
	Drawn    float64        `json:"drawn"`
	Label    string         `json:"label,omitempty"`
	Fixed    bool           `json:"fixed,omitempty"`
	Facing   bool           `json:"facing,omitempty"`
	Line     *[2][3]float64 `json:"line,omitempty"`
	Controls [][3]float64   `json:"controls,omitempty"`
	Axis     *[3]float64    `json:"axis,omitempty"`
	Angle    float64        `json:"angle,omitempty"`
}

type Done struct {
	Frame int  `json:"frame"`
	Loop  bool `json:"loop"`
}
