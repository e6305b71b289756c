// Package visual maintains a headless scene of commit nodes laid out on a
// spiral, with highlight pulses and an orbiting camera.
package visual

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/maxbolgarin/errm"

	"github.com/masmgr/gitsymphony/internal/record"
)

// Color is a 24-bit RGB value.
type Color uint32

const (
	ColorBackground Color = 0x0a0a0a
	ColorLarge      Color = 0xff6b6b
	ColorMedium     Color = 0xffa500
	ColorAdditive   Color = 0x4ecdc4
	ColorSmall      Color = 0x95e1d3
	ColorPulse      Color = 0xff6b6b
)

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// Layout and animation constants.
const (
	SpiralTurns      = 2
	SpiralBaseRadius = 20.0
	SpiralRadiusGain = 10.0
	SpiralHeight     = 40.0

	CameraDistance = 50.0
	CameraSpeed    = 0.0001 // radians per millisecond

	NodeSpin = 0.01 // radians per frame

	HighlightScale    = 2.0
	HighlightEmissive = 1.0
	RestScale         = 1.0
	RestEmissive      = 0.3

	PulseInterval     = 50 * time.Millisecond
	PulseGrowth       = 0.2
	PulseFade         = 0.05
	PulseStartOpacity = 0.5
)

// ErrNodeOutOfRange is returned when highlighting an index with no node.
var ErrNodeOutOfRange = errm.New("node index out of range")

// Vec3 is a point in scene space.
type Vec3 struct {
	X, Y, Z float64
}

// Node is one commit in the scene.
type Node struct {
	Index     int
	Commit    record.Commit
	Position  Vec3
	Color     Color
	Scale     float64
	Emissive  float64
	RotationY float64
}

// Pulse is an expanding, fading sphere spawned by a highlight.
type Pulse struct {
	Position Vec3
	Color    Color
	Scale    float64
	Opacity  float64
	ticks    int
	elapsed  time.Duration
}

// Alive reports whether the pulse is still visible.
func (p Pulse) Alive() bool {
	return p.ticks < pulseLifetime
}

// pulseLifetime is the number of ticks until the opacity reaches zero.
var pulseLifetime = int(math.Round(PulseStartOpacity / PulseFade))

// Frame is an immutable snapshot of the scene.
type Frame struct {
	At          time.Time
	Camera      Vec3
	Nodes       []Node
	Pulses      []Pulse
	Highlighted int // -1 when nothing is highlighted
}

// SpiralPosition places node index of total on the spiral.
func SpiralPosition(index, total int) Vec3 {
	if total <= 0 {
		return Vec3{X: SpiralBaseRadius, Y: -SpiralHeight / 2}
	}
	t := float64(index) / float64(total)
	angle := t * math.Pi * 2 * SpiralTurns
	radius := SpiralBaseRadius + t*SpiralRadiusGain
	return Vec3{
		X: math.Cos(angle) * radius,
		Y: t*SpiralHeight - SpiralHeight/2,
		Z: math.Sin(angle) * radius,
	}
}

// ColorFor picks the node color from the commit size.
func ColorFor(c record.Commit) Color {
	total := c.TotalChanges()
	switch {
	case total > record.LargeThreshold:
		return ColorLarge
	case total > record.MediumThreshold:
		return ColorMedium
	case c.Additions > c.Deletions:
		return ColorAdditive
	default:
		return ColorSmall
	}
}

// CameraPosition returns the orbiting camera position at now.
func CameraPosition(now time.Time) Vec3 {
	phase := float64(now.UnixMilli()) * CameraSpeed
	return Vec3{
		X: math.Sin(phase) * CameraDistance,
		Z: math.Cos(phase) * CameraDistance,
	}
}

// Scene is safe for concurrent use; playback highlights it while a render
// loop advances it.
type Scene struct {
	mu          sync.Mutex
	nodes       []Node
	pulses      []Pulse
	highlighted int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{highlighted: -1}
}

// CreateNode adds a node for commit at index of total and returns it.
func (s *Scene) CreateNode(c record.Commit, index, total int) Node {
	n := Node{
		Index:    index,
		Commit:   c,
		Position: SpiralPosition(index, total),
		Color:    ColorFor(c),
		Scale:    RestScale,
		Emissive: RestEmissive,
	}

	s.mu.Lock()
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
	return n
}

// Populate replaces the scene contents with one node per commit.
func (s *Scene) Populate(commits []record.Commit) {
	s.Reset()
	for i, c := range commits {
		s.CreateNode(c, i, len(commits))
	}
}

// Highlight emphasizes the node at index, restores all others and spawns a pulse.
func (s *Scene) Highlight(index, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.nodes) {
		return errm.Wrap(ErrNodeOutOfRange, "highlight", "index", index, "total", total, "nodes", len(s.nodes))
	}

	for i := range s.nodes {
		if i == index {
			s.nodes[i].Scale = HighlightScale
			s.nodes[i].Emissive = HighlightEmissive
			continue
		}
		s.nodes[i].Scale = RestScale
		s.nodes[i].Emissive = RestEmissive
	}
	s.highlighted = index

	s.pulses = append(s.pulses, Pulse{
		Position: s.nodes[index].Position,
		Color:    ColorPulse,
		Scale:    1,
		Opacity:  PulseStartOpacity,
	})
	return nil
}

// Clear restores every node to its resting look. Pulses fade on their own.
func (s *Scene) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.nodes {
		s.nodes[i].Scale = RestScale
		s.nodes[i].Emissive = RestEmissive
	}
	s.highlighted = -1
	return nil
}

// Reset removes all nodes and pulses.
func (s *Scene) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = nil
	s.pulses = nil
	s.highlighted = -1
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Node returns the node at index.
func (s *Scene) Node(index int) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.nodes) {
		return Node{}, false
	}
	return s.nodes[index], true
}

// Advance runs one animation frame covering dt.
func (s *Scene) Advance(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.nodes {
		s.nodes[i].RotationY += NodeSpin
	}

	alive := s.pulses[:0]
	for _, p := range s.pulses {
		p.elapsed += dt
		for p.elapsed >= PulseInterval && p.Alive() {
			p.elapsed -= PulseInterval
			p.ticks++
			p.Scale += PulseGrowth
			p.Opacity = math.Max(0, PulseStartOpacity-float64(p.ticks)*PulseFade)
		}
		if p.Alive() {
			alive = append(alive, p)
		}
	}
	s.pulses = alive
}

// Frame snapshots the scene with the camera position at now.
func (s *Scene) Frame(now time.Time) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := make([]Node, len(s.nodes))
	copy(nodes, s.nodes)
	pulses := make([]Pulse, len(s.pulses))
	copy(pulses, s.pulses)

	return Frame{
		At:          now,
		Camera:      CameraPosition(now),
		Nodes:       nodes,
		Pulses:      pulses,
		Highlighted: s.highlighted,
	}
}

// Run advances and renders the scene every interval until ctx is done.
// It runs independently of playback.
func (s *Scene) Run(ctx context.Context, interval time.Duration, render func(Frame)) error {
	if interval <= 0 {
		return errm.Errorf("render interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Advance(interval)
			if render != nil {
				render(s.Frame(now))
			}
		}
	}
}
