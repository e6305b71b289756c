// Package playback sequences commit events in time.
package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"

	"github.com/masmgr/gitsymphony/internal/music"
	"github.com/masmgr/gitsymphony/internal/record"
)

// DefaultGap separates consecutive notes.
const DefaultGap = 150 * time.Millisecond

var (
	// ErrAlreadyPlaying is returned by Start while a pass is running.
	ErrAlreadyPlaying = errm.New("playback already in progress")

	// ErrNotStarted is returned by Wait before the first Start.
	ErrNotStarted = errm.New("playback has not been started")
)

// Sink sounds an event. Implementations pick the voice from the event timbre.
type Sink interface {
	Play(ev music.Event) error
}

// Highlighter marks the node of the commit being played.
type Highlighter interface {
	Highlight(index, total int) error
	Clear() error
}

// State is the scheduler state.
type State int

const (
	StateIdle State = iota
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "idle"
}

// Outcome tells how a playback pass ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeStopped
)

func (o Outcome) String() string {
	if o == OutcomeStopped {
		return "stopped"
	}
	return "completed"
}

// Step describes one emitted event.
type Step struct {
	Index  int
	Total  int
	Commit record.Commit
	Event  music.Event
}

// Options configure a Scheduler. Zero Gap means DefaultGap.
type Options struct {
	Gap         time.Duration
	Clock       Clock
	Highlighter Highlighter
	OnStep      func(Step)
	OnFinish    func(Outcome)
}

// Scheduler plays an ordered commit list one event at a time.
// Each step schedules the next one only after its own emissions return,
// so steps never interleave.
type Scheduler struct {
	commits     []record.Commit
	sink        Sink
	highlighter Highlighter
	clock       Clock
	gap         time.Duration
	onStep      func(Step)
	onFinish    func(Outcome)
	log         logze.Logger

	mu      sync.Mutex
	state   State
	cursor  int
	session uint64
	pending Timer
	current *pass
}

// pass tracks the end of one playback pass.
type pass struct {
	done    chan struct{}
	outcome Outcome
}

// New creates a scheduler over commits, which must be ordered oldest first.
func New(commits []record.Commit, sink Sink, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}

	return &Scheduler{
		commits:     commits,
		sink:        sink,
		highlighter: opts.Highlighter,
		clock:       opts.Clock,
		gap:         lang.Check(opts.Gap, DefaultGap),
		onStep:      opts.OnStep,
		onFinish:    opts.OnFinish,
		log:         logze.With("component", "scheduler"),
	}
}

// Start begins a pass from the first commit and emits it immediately.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.state == StatePlaying {
		s.mu.Unlock()
		return ErrAlreadyPlaying
	}
	s.session++
	s.state = StatePlaying
	s.cursor = 0
	s.current = &pass{done: make(chan struct{})}
	session := s.session
	s.mu.Unlock()

	s.log.Debug("playback started", "commits", len(s.commits))
	s.step(session)
	return nil
}

// Stop ends the current pass. Steps already scheduled become no-ops.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	cursor := s.cursor
	p := s.current
	s.mu.Unlock()

	s.guard("clear", func() error {
		if s.highlighter == nil {
			return nil
		}
		return s.highlighter.Clear()
	})

	s.log.Debug("playback stopped", "cursor", cursor)
	s.finish(p, OutcomeStopped)
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cursor returns the index of the next commit to play.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Len returns the number of commits in the list.
func (s *Scheduler) Len() int {
	return len(s.commits)
}

// Wait blocks until the current pass ends and returns its outcome.
func (s *Scheduler) Wait(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()

	if p == nil {
		return 0, ErrNotStarted
	}

	select {
	case <-p.done:
		return p.outcome, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (s *Scheduler) step(session uint64) {
	s.mu.Lock()
	if s.state != StatePlaying || s.session != session {
		s.mu.Unlock()
		return
	}
	s.pending = nil

	if s.cursor >= len(s.commits) {
		s.state = StateIdle
		p := s.current
		s.mu.Unlock()
		s.log.Debug("playback complete", "commits", len(s.commits))
		s.finish(p, OutcomeCompleted)
		return
	}

	index := s.cursor
	s.cursor++
	s.mu.Unlock()

	commit := s.commits[index]
	ev := music.MapCommit(commit, index)
	total := len(s.commits)

	if s.highlighter != nil {
		s.guard("highlight", func() error { return s.highlighter.Highlight(index, total) }, "index", index)
	}
	s.guard("play", func() error { return s.sink.Play(ev) }, "index", index, "pitch", ev.Pitch, "timbre", string(ev.Timbre))

	if s.onStep != nil {
		s.onStep(Step{Index: index, Total: total, Commit: commit, Event: ev})
	}

	delay := ev.Duration() + s.gap

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying || s.session != session {
		return
	}
	// Clock implementations must not run f before AfterFunc returns.
	s.pending = s.clock.AfterFunc(delay, func() { s.step(session) })
}

func (s *Scheduler) finish(p *pass, outcome Outcome) {
	p.outcome = outcome
	close(p.done)
	if s.onFinish != nil {
		s.onFinish(outcome)
	}
}

// guard runs an emission and logs, but never propagates, its error or panic.
func (s *Scheduler) guard(op string, fn func() error, fields ...any) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Err(fmt.Errorf("panic: %v", r), "playback "+op+" failed", fields...)
		}
	}()
	if err := fn(); err != nil {
		s.log.Err(err, "playback "+op+" failed", fields...)
	}
}
