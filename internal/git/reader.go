package git

import (
	"context"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"
)

const defaultWorkers = 8

// HistoryReader reads commit history from a Git repository using go-git.
type HistoryReader struct {
	repo   *git.Repository
	opts   ReadOptions
	filter PathFilter
	log    logze.Logger
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	filter := PathFilter{Include: opts.Include, Exclude: opts.Exclude}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	repo, err := openRepository(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	opts.Workers = lang.Check(opts.Workers, defaultWorkers)

	return &HistoryReader{
		repo:   repo,
		opts:   opts,
		filter: filter,
		log:    logze.With("component", "history-reader"),
	}, nil
}

func openRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errm.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, errm.Wrap(err, "open repository")
	}
	return repo, nil
}

// ReadChanges reads up to MaxCount commits, newest first, with per-file line stats.
// A commit that has no parent, or whose diff cannot be computed, is returned with
// no file changes instead of failing the whole read.
func (r *HistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	from, err := r.startHash()
	if err != nil {
		if errm.Is(err, plumbing.ErrReferenceNotFound) {
			// Empty repository: no commits yet.
			return nil, nil
		}
		return nil, err
	}

	cIter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, errm.Wrap(err, "git log")
	}
	defer cIter.Close()

	limit := r.opts.maxCount()
	hashes := make([]plumbing.Hash, 0, limit)
	results := make([]CommitChangeSet, 0, limit)

	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(results) >= limit {
			return storer.ErrStop
		}

		hashes = append(hashes, c.Hash)
		results = append(results, CommitChangeSet{
			Commit: CommitInfo{
				SHA:     c.Hash.String(),
				When:    c.Author.When,
				Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
				Message: firstLine(c.Message),
				Parents: c.NumParents(),
			},
		})
		return nil
	})
	if err != nil {
		return nil, errm.Wrap(err, "walk history")
	}

	if err := r.fillChanges(ctx, hashes, results); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *HistoryReader) startHash() (plumbing.Hash, error) {
	rev := strings.TrimSpace(r.opts.Branch)
	if rev == "" || strings.EqualFold(rev, "HEAD") {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return ref.Hash(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, errm.Wrap(err, "resolve branch", "branch", rev)
	}
	return *hash, nil
}

// fillChanges computes diff stats on a worker pool. Each worker borrows its own
// repository handle because go-git object storage is not safe for concurrent reads.
func (r *HistoryReader) fillChanges(ctx context.Context, hashes []plumbing.Hash, results []CommitChangeSet) error {
	pool, err := ants.NewPool(r.opts.Workers)
	if err != nil {
		return errm.Wrap(err, "failed to create ants pool")
	}
	defer pool.Release()

	handles := make(chan *git.Repository, r.opts.Workers)
	var wg sync.WaitGroup

	for i := range hashes {
		if results[i].Commit.Parents == 0 {
			continue
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			repo, ok := r.borrow(handles)
			if !ok {
				return
			}
			defer r.release(handles, repo)

			changes, err := commitChanges(ctx, repo, hashes[i])
			if err != nil {
				r.log.Debug("diff failed, using zero stats", "commit", hashes[i].String()[:ShortSHALength], "error", err.Error())
				return
			}
			results[i].Changes = r.filter.apply(changes)
		})
		if err != nil {
			wg.Done()
			return errm.Wrap(err, "submit diff task")
		}
	}

	wg.Wait()
	return ctx.Err()
}

func (r *HistoryReader) borrow(handles chan *git.Repository) (*git.Repository, bool) {
	select {
	case repo := <-handles:
		return repo, true
	default:
	}
	repo, err := openRepository(r.opts.RepoPath)
	if err != nil {
		r.log.Err(err, "reopen repository for diff")
		return nil, false
	}
	return repo, true
}

func (r *HistoryReader) release(handles chan *git.Repository, repo *git.Repository) {
	select {
	case handles <- repo:
	default:
	}
}

// commitChanges diffs a commit against its first parent.
func commitChanges(ctx context.Context, repo *git.Repository, hash plumbing.Hash) ([]FileChange, error) {
	c, err := repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}

	patch, err := parent.PatchContext(ctx, c)
	if err != nil {
		return nil, err
	}

	stats := patch.Stats()
	changes := make([]FileChange, 0, len(stats))
	for _, st := range stats {
		path := st.Name
		// go-git reports renames as "old => new".
		if idx := strings.Index(path, " => "); idx != -1 {
			path = path[idx+len(" => "):]
		}
		if path == "" {
			continue
		}
		changes = append(changes, FileChange{
			Path:         path,
			LinesAdded:   st.Addition,
			LinesDeleted: st.Deletion,
		})
	}

	return changes, nil
}
