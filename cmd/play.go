package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitsymphony/internal/audio"
	"github.com/masmgr/gitsymphony/internal/fetch"
	"github.com/masmgr/gitsymphony/internal/output"
	"github.com/masmgr/gitsymphony/internal/playback"
	"github.com/masmgr/gitsymphony/internal/record"
	"github.com/masmgr/gitsymphony/internal/visual"
)

// PlayCmd returns the play command.
func PlayCmd() *cli.Command {
	flags := append(repoFlags(),
		&cli.BoolFlag{
			Name:  "demo",
			Usage: "Play synthetic commits instead of reading a repository",
		},
		&cli.IntFlag{
			Name:  "demo-count",
			Usage: "Number of synthetic commits",
			Value: record.DefaultSyntheticCount,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "Seed for synthetic commits (default: random)",
		},
		&cli.DurationFlag{
			Name:  "gap",
			Usage: "Pause between notes, 0 to 1s",
		},
		&cli.StringFlag{
			Name:  "events",
			Usage: "Write emitted events as NDJSON to this file",
		},
	)

	return &cli.Command{
		Name:      "play",
		Aliases:   []string{"p"},
		Usage:     "Play the commit history as a sequence of notes",
		ArgsUsage: "[repo]",
		Flags:     flags,
		Action:    playAction,
	}
}

func playAction(c *cli.Context) error {
	cctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cctx.Close()

	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()))
	defer ctx.Shutdown()

	out := c.App.Writer
	res, err := loadPlayCommits(ctx, c, cctx.Fetcher, out)
	if err != nil {
		return err
	}

	if len(res.Commits) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No commits found in repository.")
		return nil
	}

	session := &playSession{
		out:      out,
		commits:  res.Commits,
		gap:      cctx.Config.Gap(),
		interval: cctx.Config.FrameInterval(),
		log:      logze.With("component", "play"),
	}

	if path := c.String("events"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return errm.Wrap(err, "failed to create event log", "path", path)
		}
		defer file.Close()
		session.events = output.NewEventLog(file)
	}

	color.New(color.FgGreen).Fprintf(out, "Playing %d commits from %s\n", len(res.Commits), res.RepoPath)
	fmt.Fprintln(out, "Press Ctrl-C to stop.")
	fmt.Fprintln(out)

	outcome, err := session.run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if outcome == playback.OutcomeStopped {
		color.New(color.FgYellow).Fprintln(out, "Playback stopped.")
		return nil
	}
	color.New(color.FgGreen).Fprintln(out, "Symphony complete.")
	return nil
}

// loadPlayCommits fetches the repository, falling back to synthetic
// commits with a warning when it cannot be read.
func loadPlayCommits(ctx context.Context, c *cli.Context, f *fetch.Fetcher, out io.Writer) (*fetch.Result, error) {
	rng := rand.New(rand.NewSource(seed(c)))

	if c.Bool("demo") {
		return fetch.Synthesize("demo", c.Int("demo-count"), rng), nil
	}

	res, err := f.FetchOrSynthesize(ctx, repoLocation(c), rng)
	if res == nil {
		return nil, errm.Wrap(err, "failed to read repository")
	}
	if err != nil {
		color.New(color.FgYellow).Fprintf(out, "Error: %v. Using synthetic commits instead...\n", err)
	}
	return res, nil
}

func seed(c *cli.Context) int64 {
	if c.IsSet("seed") {
		return c.Int64("seed")
	}
	return time.Now().UnixNano()
}

// playSession wires the scene, the console orchestra and the scheduler.
type playSession struct {
	out      io.Writer
	commits  []record.Commit
	gap      time.Duration
	interval time.Duration
	events   *output.EventLog
	log      logze.Logger
}

func (s *playSession) run(ctx context.Context) (playback.Outcome, error) {
	scene := visual.NewScene()
	scene.Populate(s.commits)

	orchestra := audio.NewConsoleOrchestra(s.out)
	if err := orchestra.Activate(ctx); err != nil {
		return 0, errm.Wrap(err, "failed to activate audio")
	}

	renderCtx, stopRender := context.WithCancel(ctx)
	defer stopRender()
	if s.interval > 0 {
		go func() {
			_ = scene.Run(renderCtx, s.interval, func(f visual.Frame) {
				s.log.Debug("frame", "pulses", len(f.Pulses), "highlighted", f.Highlighted)
			})
		}()
	}

	sched := playback.New(s.commits, orchestra, playback.Options{
		Gap:         s.gap,
		Highlighter: &stage{scene: scene, out: s.out},
		OnStep:      s.record,
	})

	if err := sched.Start(); err != nil {
		return 0, err
	}

	outcome, err := sched.Wait(ctx)
	if err != nil {
		// interrupted
		sched.Stop()
		return playback.OutcomeStopped, nil
	}
	return outcome, nil
}

func (s *playSession) record(st playback.Step) {
	if s.events == nil {
		return
	}
	err := s.events.Append(output.EventRecord{
		Time:  time.Now(),
		Hash:  st.Commit.Hash,
		Index: st.Index,
		Total: st.Total,
		Event: st.Event,
	})
	if err != nil {
		s.log.Err(err, "failed to write event")
	}
}

// stage highlights scene nodes and prints the commit being played.
type stage struct {
	scene *visual.Scene
	out   io.Writer
}

func (s *stage) Highlight(index, total int) error {
	if err := s.scene.Highlight(index, total); err != nil {
		return err
	}
	node, _ := s.scene.Node(index)
	c := node.Commit

	marker := color.New(nodeAttribute(node.Color)).Sprint("●")
	_, err := fmt.Fprintf(s.out, "[%*d/%d] %s %s %-8s +%d -%d  %s\n",
		len(fmt.Sprint(total)), index+1, total,
		marker, c.Hash, c.Author, c.Additions, c.Deletions,
		truncate(c.Message, 50))
	return err
}

func (s *stage) Clear() error {
	return s.scene.Clear()
}

func nodeAttribute(c visual.Color) color.Attribute {
	switch c {
	case visual.ColorLarge:
		return color.FgRed
	case visual.ColorMedium:
		return color.FgYellow
	case visual.ColorAdditive:
		return color.FgCyan
	default:
		return color.FgHiCyan
	}
}

// truncate shortens s to n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
