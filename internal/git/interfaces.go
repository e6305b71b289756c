package git

import "context"

// RepositoryReader defines the interface for reading Git repository history.
type RepositoryReader interface {
	// ReadChanges returns up to MaxCount commits, newest first.
	ReadChanges(ctx context.Context) ([]CommitChangeSet, error)
}

// Compile-time interface conformance check.
var (
	_ RepositoryReader = (*HistoryReader)(nil)
	_ RepositoryReader = (*CLIReader)(nil)
)

// NewReader opens a reader for the given backend.
func NewReader(backend Backend, opts ReadOptions) (RepositoryReader, error) {
	if backend == BackendGitCLI {
		return NewCLIReader(opts)
	}
	return NewHistoryReader(opts)
}
