package audio

import (
	"slices"
	"sync"
	"time"
)

// Played is one captured note or chord.
type Played struct {
	Voice    string
	Pitches  []string
	Duration time.Duration
	Chord    bool
}

// Recorder is an Instrument that captures what it plays.
type Recorder struct {
	Name string
	Err  error // returned from every play when set

	mu     sync.Mutex
	played []Played
}

// NewRecorder creates a recorder.
func NewRecorder(name string) *Recorder {
	return &Recorder{Name: name}
}

// PlayNote records a single note.
func (r *Recorder) PlayNote(pitch string, d time.Duration) error {
	return r.record(Played{Voice: r.Name, Pitches: []string{pitch}, Duration: d})
}

// PlayChord records a chord.
func (r *Recorder) PlayChord(pitches []string, d time.Duration) error {
	return r.record(Played{Voice: r.Name, Pitches: slices.Clone(pitches), Duration: d, Chord: true})
}

func (r *Recorder) record(p Played) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, p)
	return r.Err
}

// Played returns a copy of everything played so far.
func (r *Recorder) Played() []Played {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.played)
}
