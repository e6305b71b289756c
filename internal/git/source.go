package git

import (
	"context"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

// DefaultCleanupDelay is how long a cloned repository is kept after it is released.
const DefaultCleanupDelay = 5 * time.Second

var (
	remotePrefixes = []string{"http://", "https://", "ssh://", "git://", "file://"}
	scpLikeRemote  = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9._-]+:[^/\\].*`)
)

// IsRemote reports whether location is a URL that must be cloned before reading.
func IsRemote(location string) bool {
	location = strings.TrimSpace(location)
	for _, p := range remotePrefixes {
		if strings.HasPrefix(strings.ToLower(location), p) {
			return true
		}
	}
	return scpLikeRemote.MatchString(location)
}

// CloneOptions configures remote clones.
type CloneOptions struct {
	Depth        int           // 0 clones full history
	CleanupDelay time.Duration // defaults to DefaultCleanupDelay
	TempDir      string        // parent directory, defaults to os.TempDir()
}

// Cloner clones remote repositories into ephemeral directories. A clone is
// kept while in use and removed a delay after its release.
type Cloner struct {
	opts CloneOptions
	log  logze.Logger

	mu sync.Mutex
	// clones maps a clone directory to its removal timer, nil while in use.
	clones map[string]*time.Timer
}

// NewCloner creates a Cloner.
func NewCloner(opts CloneOptions) *Cloner {
	opts.CleanupDelay = lang.Check(opts.CleanupDelay, DefaultCleanupDelay)
	return &Cloner{
		opts:   opts,
		log:    logze.With("component", "cloner"),
		clones: make(map[string]*time.Timer),
	}
}

// Clone clones url and returns the local directory with its release function.
// The directory is removed CleanupDelay after release, or on Close.
func (c *Cloner) Clone(ctx context.Context, url string) (string, func(), error) {
	dir, err := os.MkdirTemp(c.opts.TempDir, "gitsymphony-")
	if err != nil {
		return "", nil, errCloneFailed(url, err)
	}

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   url,
		Depth: c.opts.Depth,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, errm.Wrap(ctxErr, "clone", "url", url)
		}
		return "", nil, errCloneFailed(url, err)
	}

	c.log.Debug("cloned repository", "url", url, "dir", dir)
	c.track(dir)

	var once sync.Once
	return dir, func() { once.Do(func() { c.release(dir) }) }, nil
}

func (c *Cloner) track(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clones[dir] = nil
}

// release schedules removal of a tracked clone that is still in use.
func (c *Cloner) release(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timer, ok := c.clones[dir]; !ok || timer != nil {
		return
	}
	c.clones[dir] = time.AfterFunc(c.opts.CleanupDelay, func() {
		c.remove(dir)
	})
}

func (c *Cloner) remove(dir string) {
	c.mu.Lock()
	delete(c.clones, dir)
	c.mu.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		c.log.Err(err, "failed to remove cloned repository", "dir", dir)
		return
	}
	c.log.Debug("removed cloned repository", "dir", dir)
}

// Pending returns the number of clones not yet removed.
func (c *Cloner) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clones)
}

// Close removes every clone immediately, released or not.
func (c *Cloner) Close() error {
	c.mu.Lock()
	dirs := make([]string, 0, len(c.clones))
	for dir, timer := range c.clones {
		if timer != nil {
			timer.Stop()
		}
		dirs = append(dirs, dir)
	}
	c.mu.Unlock()

	for _, dir := range dirs {
		c.remove(dir)
	}
	return nil
}
