// Package music maps commit statistics to musical events.
package music

import (
	"strconv"
	"time"

	"github.com/masmgr/gitsymphony/internal/record"
)

// Mapping constants.
const (
	BaseOctave      = 3
	MaxOctave       = 6
	AdditionsPerOct = 20

	MinDurationSeconds = 0.3
	MaxDurationSeconds = 1.2
	ChangesPerSecond   = 50

	ChordThreshold = 100
)

// Scales holds semitone offsets from the root.
var Scales = map[string][]int{
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
	"pentatonic": {0, 2, 4, 7, 9},
}

// PitchClasses names the chromatic pitch classes starting at C.
var PitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const rootPitchClass = 0 // C

// Event is the musical rendering of one commit.
type Event struct {
	Index           int      `json:"index" yaml:"index"`
	Pitch           string   `json:"pitch" yaml:"pitch"`
	Chord           []string `json:"chord" yaml:"chord"`
	DurationSeconds float64  `json:"durationSeconds" yaml:"durationSeconds"`
	Timbre          Timbre   `json:"timbre" yaml:"timbre"`
	Octave          int      `json:"octave" yaml:"octave"`
	ScaleIndex      int      `json:"scaleIndex" yaml:"scaleIndex"`
	TotalChanges    int      `json:"totalChanges" yaml:"totalChanges"`
}

// IsChord reports whether the event sounds three pitches.
func (e Event) IsChord() bool {
	return e.Chord != nil
}

// Pitches returns the chord, or the single pitch.
func (e Event) Pitches() []string {
	if e.IsChord() {
		return e.Chord
	}
	return []string{e.Pitch}
}

// Duration returns the event length as a time.Duration.
func (e Event) Duration() time.Duration {
	return time.Duration(e.DurationSeconds * float64(time.Second))
}

// MapCommit maps a commit at position index of an oldest-first list to an event.
// The index shifts the scale step, so identical commits at different positions
// produce different pitches.
func MapCommit(c record.Commit, index int) Event {
	scale := Scales["pentatonic"]
	total := c.TotalChanges()

	octave := min(c.Additions/AdditionsPerOct+BaseOctave, MaxOctave)
	scaleIndex := mod(c.Additions+index, len(scale))
	pitchClass := (rootPitchClass + scale[scaleIndex]) % 12

	ev := Event{
		Index:           index,
		Pitch:           pitchName(pitchClass, octave),
		DurationSeconds: clamp(float64(total)/ChangesPerSecond, MinDurationSeconds, MaxDurationSeconds),
		Timbre:          TimbreForPath(c.FirstFile()),
		Octave:          octave,
		ScaleIndex:      scaleIndex,
		TotalChanges:    total,
	}

	// Chords always use a major triad shape, whatever the scale.
	if total > ChordThreshold {
		ev.Chord = []string{
			ev.Pitch,
			pitchName((pitchClass+4)%12, octave),
			pitchName((pitchClass+7)%12, octave),
		}
	}

	return ev
}

// MapAll maps every commit using its position as the index.
func MapAll(commits []record.Commit) []Event {
	events := make([]Event, len(commits))
	for i, c := range commits {
		events[i] = MapCommit(c, i)
	}
	return events
}

func pitchName(pitchClass, octave int) string {
	return PitchClasses[pitchClass] + strconv.Itoa(octave)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// mod returns a non-negative remainder so negative inputs still pick a valid step.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
