package audio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/masmgr/gitsymphony/internal/music"
)

var timbreColors = map[music.Timbre]color.Attribute{
	music.TimbreSynth: color.FgCyan,
	music.TimbrePiano: color.FgYellow,
	music.TimbreBass:  color.FgMagenta,
	music.TimbrePluck: color.FgGreen,
}

// ConsoleVoice prints every note it plays as one line.
type ConsoleVoice struct {
	name string
	out  io.Writer
	c    *color.Color
	mu   *sync.Mutex
}

// NewConsoleVoice creates a voice writing to out. Voices sharing mu never
// interleave their lines.
func NewConsoleVoice(name string, out io.Writer, attr color.Attribute, mu *sync.Mutex) *ConsoleVoice {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &ConsoleVoice{name: name, out: out, c: color.New(attr), mu: mu}
}

// PlayNote prints a single note.
func (v *ConsoleVoice) PlayNote(pitch string, d time.Duration) error {
	return v.print("♪", pitch, d)
}

// PlayChord prints a chord.
func (v *ConsoleVoice) PlayChord(pitches []string, d time.Duration) error {
	return v.print("♫", strings.Join(pitches, "+"), d)
}

func (v *ConsoleVoice) print(symbol, pitches string, d time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, err := v.c.Fprintf(v.out, "   %s %-6s %-10s %.2fs\n", symbol, v.name, pitches, d.Seconds())
	return err
}

// NewConsoleOrchestra builds an orchestra with one colored console voice per timbre.
// Activation checks that the output is writable, the console stand-in for
// unlocking an audio device.
func NewConsoleOrchestra(out io.Writer) *Orchestra {
	var mu sync.Mutex
	instruments := make(map[music.Timbre]Instrument, len(music.Timbres))
	for _, t := range music.Timbres {
		instruments[t] = NewConsoleVoice(string(t), out, timbreColors[t], &mu)
	}

	activate := func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := fmt.Fprint(out, "")
		return err
	}

	o, _ := NewOrchestra(instruments, music.DefaultTimbre, activate)
	return o
}
