// Package audio routes musical events to instrument voices.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/maxbolgarin/errm"

	"github.com/masmgr/gitsymphony/internal/music"
)

var (
	// ErrNotActivated is returned by Play before Activate has succeeded.
	ErrNotActivated = errm.New("audio output is not activated")

	// ErrNoFallback is returned when the fallback timbre has no instrument.
	ErrNoFallback = errm.New("no instrument registered for the fallback timbre")
)

// Instrument is a voice that can sound pitches.
type Instrument interface {
	PlayNote(pitch string, d time.Duration) error
	PlayChord(pitches []string, d time.Duration) error
}

// ActivateFunc prepares the audio output. It runs once, on the first
// successful Activate call.
type ActivateFunc func(ctx context.Context) error

// Orchestra selects an instrument by timbre and falls back to a default one.
type Orchestra struct {
	instruments map[music.Timbre]Instrument
	fallback    music.Timbre
	activate    ActivateFunc

	mu     sync.Mutex
	active bool
}

// NewOrchestra creates an orchestra; instruments must contain the fallback timbre.
func NewOrchestra(instruments map[music.Timbre]Instrument, fallback music.Timbre, activate ActivateFunc) (*Orchestra, error) {
	if _, ok := instruments[fallback]; !ok {
		return nil, errm.Wrap(ErrNoFallback, "new orchestra", "fallback", string(fallback))
	}

	copied := make(map[music.Timbre]Instrument, len(instruments))
	for t, inst := range instruments {
		copied[t] = inst
	}

	return &Orchestra{
		instruments: copied,
		fallback:    fallback,
		activate:    activate,
	}, nil
}

// Activate enables playback. It is idempotent; a failed activation may be retried.
func (o *Orchestra) Activate(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active {
		return nil
	}
	if o.activate != nil {
		if err := o.activate(ctx); err != nil {
			return errm.Wrap(err, "activate audio")
		}
	}
	o.active = true
	return nil
}

// Active reports whether Activate has succeeded.
func (o *Orchestra) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Instrument returns the instrument for t, or the fallback instrument.
func (o *Orchestra) Instrument(t music.Timbre) Instrument {
	if inst, ok := o.instruments[t]; ok {
		return inst
	}
	return o.instruments[o.fallback]
}

// Play sounds an event as a chord or a single note.
func (o *Orchestra) Play(ev music.Event) error {
	if !o.Active() {
		return ErrNotActivated
	}

	inst := o.Instrument(ev.Timbre)
	if ev.IsChord() {
		return inst.PlayChord(ev.Chord, ev.Duration())
	}
	return inst.PlayNote(ev.Pitch, ev.Duration())
}
