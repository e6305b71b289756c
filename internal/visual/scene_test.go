package visual

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/maxbolgarin/errm"

	"github.com/masmgr/gitsymphony/internal/record"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestSpiralPosition(t *testing.T) {
	tests := []struct {
		name         string
		index, total int
		want         Vec3
	}{
		{"first node", 0, 4, Vec3{X: 20, Y: -20, Z: 0}},
		{"quarter", 1, 4, Vec3{X: -22.5, Y: -10, Z: 0}},
		{"eighth", 1, 8, Vec3{X: 0, Y: -15, Z: 21.25}},
		{"empty total", 0, 0, Vec3{X: 20, Y: -20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpiralPosition(tt.index, tt.total)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Z, tt.want.Z) {
				t.Errorf("SpiralPosition(%d, %d) = %+v, expected %+v", tt.index, tt.total, got, tt.want)
			}
		})
	}
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		name   string
		commit record.Commit
		want   Color
	}{
		{"large", record.Commit{Additions: 90, Deletions: 20}, ColorLarge},
		{"exactly 100 is medium", record.Commit{Additions: 60, Deletions: 40}, ColorMedium},
		{"medium", record.Commit{Additions: 30, Deletions: 30}, ColorMedium},
		{"additive", record.Commit{Additions: 10, Deletions: 2}, ColorAdditive},
		{"balanced small", record.Commit{Additions: 5, Deletions: 5}, ColorSmall},
		{"deletion heavy", record.Commit{Additions: 1, Deletions: 9}, ColorSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorFor(tt.commit); got != tt.want {
				t.Errorf("ColorFor() = %s, expected %s", got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	if got := ColorAdditive.Hex(); got != "#4ecdc4" {
		t.Errorf("Hex() = %q", got)
	}
}

func TestCameraPosition(t *testing.T) {
	got := CameraPosition(time.UnixMilli(0))
	if !near(got.X, 0) || !near(got.Z, CameraDistance) || got.Y != 0 {
		t.Errorf("CameraPosition(0) = %+v", got)
	}

	turn := math.Pi / 2 / CameraSpeed
	quarter := int64(math.Round(turn))
	got = CameraPosition(time.UnixMilli(quarter))
	if math.Abs(got.X-CameraDistance) > 1e-3 || math.Abs(got.Z) > 1e-2 {
		t.Errorf("CameraPosition(quarter turn) = %+v", got)
	}
}

func populated(n int) *Scene {
	s := NewScene()
	commits := make([]record.Commit, n)
	for i := range commits {
		commits[i] = record.Commit{Hash: "c", Additions: i, Deletions: 1}
	}
	s.Populate(commits)
	return s
}

func TestScene_Highlight(t *testing.T) {
	s := populated(3)

	if err := s.Highlight(1, 3); err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	f := s.Frame(time.Now())
	if f.Highlighted != 1 {
		t.Fatalf("Highlighted = %d, expected 1", f.Highlighted)
	}
	for i, n := range f.Nodes {
		wantScale, wantEmissive := RestScale, RestEmissive
		if i == 1 {
			wantScale, wantEmissive = HighlightScale, HighlightEmissive
		}
		if n.Scale != wantScale || n.Emissive != wantEmissive {
			t.Errorf("node %d scale/emissive = %v/%v, expected %v/%v", i, n.Scale, n.Emissive, wantScale, wantEmissive)
		}
	}
	if len(f.Pulses) != 1 || f.Pulses[0].Position != f.Nodes[1].Position || f.Pulses[0].Opacity != PulseStartOpacity {
		t.Fatalf("pulses = %+v", f.Pulses)
	}

	if err := s.Highlight(2, 3); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	f = s.Frame(time.Now())
	if f.Nodes[1].Scale != RestScale || f.Nodes[2].Scale != HighlightScale {
		t.Errorf("previous highlight not restored: %+v", f.Nodes)
	}
}

func TestScene_HighlightOutOfRange(t *testing.T) {
	s := populated(2)

	for _, idx := range []int{-1, 2, 10} {
		if err := s.Highlight(idx, 2); !errm.Is(err, ErrNodeOutOfRange) {
			t.Errorf("Highlight(%d) = %v, expected ErrNodeOutOfRange", idx, err)
		}
	}
	if n := len(s.Frame(time.Now()).Pulses); n != 0 {
		t.Errorf("pulses = %d after failed highlights", n)
	}
}

func TestScene_ClearAndReset(t *testing.T) {
	s := populated(3)
	_ = s.Highlight(0, 3)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	f := s.Frame(time.Now())
	if f.Highlighted != -1 || f.Nodes[0].Scale != RestScale {
		t.Errorf("Clear left highlight: %+v", f)
	}
	if s.Len() != 3 {
		t.Errorf("Clear removed nodes")
	}

	s.Reset()
	if s.Len() != 0 || len(s.Frame(time.Now()).Pulses) != 0 {
		t.Errorf("Reset kept contents")
	}
}

func TestScene_PulseLifetime(t *testing.T) {
	s := populated(1)
	_ = s.Highlight(0, 1)

	s.Advance(PulseInterval)
	p := s.Frame(time.Now()).Pulses[0]
	if !near(p.Scale, 1.2) || !near(p.Opacity, 0.45) {
		t.Fatalf("after one tick pulse = %+v", p)
	}

	s.Advance(PulseInterval / 2)
	if p := s.Frame(time.Now()).Pulses[0]; !near(p.Scale, 1.2) {
		t.Fatalf("partial interval ticked the pulse: %+v", p)
	}

	for i := 0; i < 8; i++ {
		s.Advance(PulseInterval)
	}
	if n := len(s.Frame(time.Now()).Pulses); n != 1 {
		t.Fatalf("pulse removed early, pulses = %d", n)
	}

	s.Advance(PulseInterval)
	if n := len(s.Frame(time.Now()).Pulses); n != 0 {
		t.Fatalf("pulse survived fading out, pulses = %d", n)
	}
}

func TestScene_AdvanceSpinsNodes(t *testing.T) {
	s := populated(2)
	s.Advance(16 * time.Millisecond)
	s.Advance(16 * time.Millisecond)

	n, ok := s.Node(1)
	if !ok || !near(n.RotationY, 2*NodeSpin) {
		t.Errorf("RotationY = %v, expected %v", n.RotationY, 2*NodeSpin)
	}
	if _, ok := s.Node(5); ok {
		t.Errorf("Node(5) found on a two-node scene")
	}
}

func TestScene_FrameIsSnapshot(t *testing.T) {
	s := populated(1)
	f := s.Frame(time.Now())
	f.Nodes[0].Scale = 99

	if n, _ := s.Node(0); n.Scale != RestScale {
		t.Errorf("mutating a frame changed the scene")
	}
}

func TestScene_Run(t *testing.T) {
	s := populated(1)
	ctx, cancel := context.WithCancel(context.Background())

	frames := 0
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, time.Millisecond, func(Frame) {
			frames++
			if frames == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if frames < 3 {
		t.Errorf("frames = %d, expected at least 3", frames)
	}
}

func TestScene_RunRejectsInterval(t *testing.T) {
	if err := NewScene().Run(context.Background(), 0, nil); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
