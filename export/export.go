// Package export writes timelines and rendered frames for offline renderers.
package export

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"choreo/protocol"
	"choreo/scene"
	"choreo/timeline"
)

// Document is the YAML form of a beat list.
type Document struct {
	Duration float64         `yaml:"duration"`
	Beats    []timeline.Beat `yaml:"beats"`
}

func WriteTimeline(w io.Writer, beats []timeline.Beat) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := Document{Duration: timeline.TotalDuration(beats), Beats: beats}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	return enc.Close()
}

// ReadTimeline parses a beat list written by WriteTimeline or by hand. The declared
// duration is informational; beats are validated when a player is built.
func ReadTimeline(r io.Reader) ([]timeline.Beat, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return doc.Beats, nil
}

// WriteFrames plays p to the end, writing one frame envelope per line followed by a
// done envelope. It returns the number of frames written.
func WriteFrames(ctx context.Context, w io.Writer, p *timeline.Player) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	err := p.Run(ctx, func(s scene.Snapshot) error {
		if err := writeLine(bw, protocol.MsgFrame, protocol.NewFrame(s)); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	done := protocol.Done{Frame: p.Scene().Frame}
	if err := writeLine(bw, protocol.MsgDone, done); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

func writeLine(w *bufio.Writer, t string, payload any) error {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write %s: %w", t, err)
	}
	return w.WriteByte('\n')
}
