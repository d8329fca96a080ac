package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	if MsgHello != "hello" {
		t.Fatalf("MsgHello = %q, want %q", MsgHello, "hello")
	}
	if MsgWelcome != "welcome" {
		t.Fatalf("MsgWelcome = %q, want %q", MsgWelcome, "welcome")
	}
	if MsgFrame != "frame" {
		t.Fatalf("MsgFrame = %q, want %q", MsgFrame, "frame")
	}
	if MsgDone != "done" {
		t.Fatalf("MsgDone = %q, want %q", MsgDone, "done")
	}
}

func TestTimingSanity(t *testing.T) {
	if FrameHz <= 0 || BroadcastHz <= 0 {
		t.Fatalf("timing constants must be > 0")
	}
	if FrameHz%BroadcastHz != 0 {
		t.Fatalf("FrameHz %% BroadcastHz != 0 (%d %% %d)", FrameHz, BroadcastHz)
	}
}
