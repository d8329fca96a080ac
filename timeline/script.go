package timeline

import (
	"gonum.org/v1/gonum/spatial/r3"

	"choreo/scene"
)

// Beat durations, seconds.
const (
	BlocksIn     = 1.4
	RailIn       = 0.5
	ToolsIn      = 0.8
	LinksIn      = 0.5
	StreamFor    = 1.6
	PauseIn      = 0.5
	CaptionIn    = 0.4
	PulsesOut    = 1.3
	GlowsOn      = 0.45
	GlowsOff     = 0.35
	PulsesIn     = 1.4
	Integrate    = 0.6
	HaloOff      = 0.4
	ResumeHold   = 0.3
	HotOn        = 0.35
	HotHold      = 0.4
	HotOff       = 0.35
	CoolHold     = 0.6
	TrailingHold = 0.25

	HotTokens = 6 // tokens that flash when the stream resumes
)

const (
	PhaseSetup      = "setup"
	PhaseStreaming  = "streaming"
	PhasePaused     = "paused"
	PhaseToolCall   = "tool-call"
	PhaseToolResult = "tool-result"
	PhaseIntegrate  = "integrate"
	PhaseResumed    = "resumed"
	PhaseEnd        = "end"
)

var (
	shiftIn   = r3.Vec{Z: -0.2}
	shiftDown = r3.Vec{Y: -0.2}
	shiftOut  = r3.Vec{Z: 0.2}
	noShift   = r3.Vec{}
)

// Script is the fixed beat list of the scene: the token stream runs, the model pauses
// to call its tools, results flow back and the stream resumes.
func Script(sc *scene.Context) []Beat {
	cfg := sc.Config
	l := sc.Layout
	shadows := cfg.Shadows()

	blocks := ids(len(l.Blocks), scene.BlockID)
	tokens := ids(len(sc.Tokens), scene.TokenID)
	tools := ids(len(l.Tools), scene.ToolID)
	labels := ids(len(l.Tools), scene.LabelID)
	connectors := ids(len(l.Tools), scene.ConnectorID)
	links := ids(len(l.Tools), scene.LinkID)
	glows := ids(len(l.Tools), scene.GlowID)

	var beats []Beat
	beats = append(beats, Beat{
		Name: "blocks-in", Phase: PhaseSetup, Duration: BlocksIn, Easing: EaseSmooth,
		Changes: []Change{FadeIn(shiftIn, blocks...)},
	})
	if shadows {
		beats = append(beats, Beat{Name: "block-shadows", Changes: []Change{Add(shadowIDs(blocks)...)}})
	}
	beats = append(beats,
		Beat{Name: "rail-in", Duration: RailIn, Easing: EaseSmooth, Changes: []Change{FadeIn(noShift, scene.RailID)}},
		Beat{Name: "tokens", Changes: []Change{Add(tokens...)}},
	)
	if shadows {
		beats = append(beats, Beat{Name: "token-shadows", Changes: []Change{Add(shadowIDs(tokens)...)}})
	}
	toolParts := append(append(append([]string{}, tools...), labels...), connectors...)
	beats = append(beats,
		Beat{Name: "tools-in", Duration: ToolsIn, Easing: EaseSmooth, Changes: []Change{FadeIn(shiftDown, toolParts...)}},
		Beat{Name: "links-in", Duration: LinksIn, Easing: EaseSmooth, Changes: []Change{FadeIn(noShift, links...)}},
		Beat{Name: "stream", Phase: PhaseStreaming, Changes: []Change{Attach(scene.UpdaterTokens)}},
		Wait("stream-hold", StreamFor),

		Beat{Name: "pause", Phase: PhasePaused, Changes: []Change{Detach(scene.UpdaterTokens)}},
		Beat{Name: "pause-icon", Duration: PauseIn, Easing: EaseSmooth, Changes: []Change{FadeIn(shiftOut, scene.PauseID)}},
		Beat{Name: "pause-caption", Duration: CaptionIn, Easing: EaseSmooth, Changes: []Change{FadeIn(noShift, scene.CaptionPauseID)}},
	)

	beats = append(beats, pulses(sc, scene.DirOut, "pulses-out", PhaseToolCall, PulsesOut)...)
	beats = append(beats,
		Beat{Name: "glows-on", Duration: GlowsOn, Easing: EaseSmooth, Changes: []Change{Create(glows...)}},
		Beat{Name: "glows-off", Duration: GlowsOff, Easing: EaseSmooth, Changes: []Change{FadeOut(noShift, glows...)}},
	)
	beats = append(beats, pulses(sc, scene.DirIn, "pulses-in", PhaseToolResult, PulsesIn)...)

	hot := tokens
	if len(hot) > HotTokens {
		hot = hot[:HotTokens]
	}
	beats = append(beats,
		Beat{
			Name: "integrate", Phase: PhaseIntegrate, Duration: Integrate, Easing: EaseSmooth,
			Changes: []Change{
				Create(scene.HaloID),
				FadeOut(noShift, scene.PauseID),
				FadeOut(noShift, scene.CaptionPauseID),
			},
		},
		Beat{Name: "halo-off", Duration: HaloOff, Easing: EaseSmooth, Changes: []Change{FadeOut(noShift, scene.HaloID)}},

		Beat{Name: "resume", Phase: PhaseResumed, Changes: []Change{Attach(scene.UpdaterTokens)}},
		Beat{Name: "resume-caption", Duration: CaptionIn, Easing: EaseSmooth, Changes: []Change{FadeIn(noShift, scene.CaptionResumeID)}},
		Wait("resume-hold", ResumeHold),
		Beat{Name: "tokens-hot", Duration: HotOn, Easing: EaseSmooth, Changes: []Change{SetColor(cfg.Theme.TokenHot, hot...)}},
		Wait("hot-hold", HotHold),
		Beat{Name: "tokens-cool", Duration: HotOff, Easing: EaseSmooth, Changes: []Change{SetColor(cfg.Theme.Token, hot...)}},
		Wait("cool-hold", CoolHold),

		Beat{Name: "stop", Phase: PhaseEnd, Changes: []Change{Detach(scene.UpdaterTokens)}},
		Wait("trailing-hold", TrailingHold),
	)
	return beats
}

// pulses sends one marker per tool along its path, drawing the faint path first when
// the scene uses curved routes.
func pulses(sc *scene.Context, dir, name, phase string, d float64) []Beat {
	var paths, dots []string
	var moves []Change
	for i := range sc.Layout.Tools {
		if _, ok := sc.Object(scene.PathID(dir, i)); ok {
			paths = append(paths, scene.PathID(dir, i))
		}
		dots = append(dots, scene.PulseID(dir, i))
		moves = append(moves, MoveAlong(scene.PulseID(dir, i), sc.PulsePath(dir, i)))
	}
	setup := Beat{Name: name + "-setup", Phase: phase, Changes: []Change{Add(dots...)}}
	if len(paths) > 0 {
		setup.Changes = append([]Change{Add(paths...)}, setup.Changes...)
	}
	return []Beat{
		setup,
		{Name: name, Duration: d, Easing: EaseSmooth, Changes: moves},
	}
}

func ids(n int, id func(int) string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id(i)
	}
	return out
}

func shadowIDs(targets []string) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = scene.ShadowID(t)
	}
	return out
}
