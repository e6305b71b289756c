// Package fetch turns a repository location into an ordered commit list.
package fetch

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"

	"github.com/masmgr/gitsymphony/internal/git"
	"github.com/masmgr/gitsymphony/internal/record"
)

// ErrEmptyLocation is returned for an empty or blank repository location.
var ErrEmptyLocation = errm.New("repository path is required")

// Config configures a Fetcher.
type Config struct {
	Backend    git.Backend
	MaxCommits int
	Branch     string
	Include    []string
	Exclude    []string
	Workers    int
	Clone      git.CloneOptions
}

// Result is the outcome of a fetch. Commits are ordered oldest first.
type Result struct {
	RepoPath    string          `json:"repoPath"`
	CommitCount int             `json:"commitCount"`
	Commits     []record.Commit `json:"commits"`
	Synthetic   bool            `json:"-"`
}

func newResult(repoPath string, commits []record.Commit) *Result {
	if commits == nil {
		commits = []record.Commit{}
	}
	return &Result{RepoPath: repoPath, CommitCount: len(commits), Commits: commits}
}

// ReaderFactory opens a history reader.
type ReaderFactory func(backend git.Backend, opts git.ReadOptions) (git.RepositoryReader, error)

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithReaderFactory replaces the function used to open readers.
func WithReaderFactory(fn ReaderFactory) Option {
	return func(f *Fetcher) { f.newReader = fn }
}

// WithCloner shares a Cloner between fetchers.
func WithCloner(c *git.Cloner) Option {
	return func(f *Fetcher) { f.cloner = c }
}

// Fetcher reads commit history from local paths and remote URLs.
type Fetcher struct {
	cfg       Config
	cloner    *git.Cloner
	newReader ReaderFactory
	log       logze.Logger
}

// New creates a Fetcher.
func New(cfg Config, opts ...Option) *Fetcher {
	cfg.Backend = lang.Check(cfg.Backend, git.BackendGoGit)
	cfg.MaxCommits = lang.Check(cfg.MaxCommits, git.DefaultMaxCount)

	f := &Fetcher{
		cfg:       cfg,
		newReader: git.NewReader,
		log:       logze.With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cloner == nil {
		f.cloner = git.NewCloner(cfg.Clone)
	}
	return f
}

// Fetch reads up to MaxCommits commits from location, oldest first.
// Remote locations are cloned into a temporary directory first.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*Result, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	timer := abstract.StartTimer()

	repoPath, dir, release, err := f.resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	defer release()

	reader, err := f.newReader(f.cfg.Backend, git.ReadOptions{
		RepoPath: dir,
		Branch:   f.cfg.Branch,
		MaxCount: f.cfg.MaxCommits,
		Include:  f.cfg.Include,
		Exclude:  f.cfg.Exclude,
		Workers:  f.cfg.Workers,
	})
	if err != nil {
		return nil, err
	}

	sets, err := reader.ReadChanges(ctx)
	if err != nil {
		return nil, errm.Wrap(err, "read history", "repo", repoPath)
	}

	commits := record.FromChangeSets(sets)
	record.Reverse(commits)
	if len(commits) > f.cfg.MaxCommits {
		commits = commits[len(commits)-f.cfg.MaxCommits:]
	}

	f.log.Debug("fetched history",
		"repo", repoPath,
		"backend", string(f.cfg.Backend),
		"commits", len(commits),
		"elapsed", timer.ElapsedTime().String(),
	)
	return newResult(repoPath, commits), nil
}

// resolve returns the reported repository path, the directory to read and
// the function that releases it once reading is done.
func (f *Fetcher) resolve(ctx context.Context, location string) (string, string, func(), error) {
	if git.IsRemote(location) {
		dir, release, err := f.cloner.Clone(ctx, location)
		if err != nil {
			return "", "", nil, err
		}
		return location, dir, release, nil
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", "", nil, errm.Wrap(err, "resolve path", "path", location)
	}
	return abs, abs, func() {}, nil
}

// FetchOrSynthesize fetches location and falls back to synthetic commits when
// the repository cannot be read. The fetch error is returned alongside the
// synthetic result so callers can report it. Cancellation is not masked.
func (f *Fetcher) FetchOrSynthesize(ctx context.Context, location string, rng *rand.Rand) (*Result, error) {
	res, err := f.Fetch(ctx, location)
	if err == nil {
		return res, nil
	}
	if errm.Is(err, context.Canceled) || errm.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	f.log.Warn("using synthetic commits", "location", location, "error", err.Error())
	return Synthesize(location, record.DefaultSyntheticCount, rng), err
}

// Synthesize builds a result of n generated commits.
func Synthesize(location string, n int, rng *rand.Rand) *Result {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	res := newResult(location, record.Synthetic(n, rng, time.Now()))
	res.Synthetic = true
	return res
}

// Close removes pending clones.
func (f *Fetcher) Close() error {
	return f.cloner.Close()
}
