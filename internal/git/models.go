package git

import (
	"strings"
	"time"
)

// ShortSHALength is the number of hex characters kept for display hashes.
const ShortSHALength = 7

// DefaultMaxCount bounds how many commits a reader returns.
const DefaultMaxCount = 100

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string
	Parents int
}

// ShortSHA returns the abbreviated commit hash.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) <= ShortSHALength {
		return c.SHA
	}
	return c.SHA[:ShortSHALength]
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// FileChange represents line statistics for one file within a commit.
type FileChange struct {
	Path         string
	LinesAdded   int
	LinesDeleted int
}

// Churn returns total lines changed (added + deleted).
func (f FileChange) Churn() int {
	return f.LinesAdded + f.LinesDeleted
}

// CommitChangeSet bundles a commit with its file changes.
type CommitChangeSet struct {
	Commit  CommitInfo
	Changes []FileChange
}

// LinesAdded sums added lines over all file changes.
func (cs CommitChangeSet) LinesAdded() int {
	total := 0
	for _, c := range cs.Changes {
		total += c.LinesAdded
	}
	return total
}

// LinesDeleted sums deleted lines over all file changes.
func (cs CommitChangeSet) LinesDeleted() int {
	total := 0
	for _, c := range cs.Changes {
		total += c.LinesDeleted
	}
	return total
}

// Backend selects the implementation used to read history.
type Backend string

const (
	BackendGoGit  Backend = "go-git"
	BackendGitCLI Backend = "git-cli"
)

// ParseBackend maps a user supplied backend name to a Backend.
func ParseBackend(s string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "go-git", "gogit":
		return BackendGoGit, true
	case "git-cli", "gitcli", "cli", "git":
		return BackendGitCLI, true
	default:
		return "", false
	}
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath string
	Branch   string
	MaxCount int      // Newest commits to read; <= 0 means DefaultMaxCount
	Include  []string // Glob patterns to include
	Exclude  []string // Glob patterns to exclude
	Workers  int      // Parallel diff workers (go-git backend)
}

func (o ReadOptions) maxCount() int {
	if o.MaxCount <= 0 {
		return DefaultMaxCount
	}
	return o.MaxCount
}

// firstLine extracts the subject line of a commit message.
func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimRight(message, "\r")
}
