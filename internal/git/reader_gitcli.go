package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/maxbolgarin/errm"
)

// CLIReader reads history by running the git binary.
type CLIReader struct {
	opts   ReadOptions
	filter PathFilter
}

// NewCLIReader checks that git is available and that RepoPath is a repository.
func NewCLIReader(opts ReadOptions) (*CLIReader, error) {
	filter := PathFilter{Include: opts.Include, Exclude: opts.Exclude}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if _, err := exec.LookPath("git"); err != nil {
		return nil, errm.Wrap(err, "git binary not found")
	}

	out, err := exec.Command("git", "-C", opts.RepoPath, "rev-parse", "--git-dir").CombinedOutput()
	if err != nil {
		if bytes.Contains(out, []byte("not a git repository")) || bytes.Contains(out, []byte("cannot change to")) {
			return nil, ErrNotRepository
		}
		return nil, errm.Wrap(err, "git rev-parse", "output", strings.TrimSpace(string(out)))
	}

	return &CLIReader{opts: opts, filter: filter}, nil
}

// ReadChanges runs a single git log with numstat output and parses it.
func (r *CLIReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	out, err := exec.CommandContext(ctx, "git", r.args()...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && bytes.Contains(exitErr.Stderr, []byte("does not have any commits")) {
			return nil, nil
		}
		return nil, errm.Wrap(err, "git log failed")
	}

	results, err := parseNumstatLog(out)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Changes = r.filter.apply(results[i].Changes)
	}
	return results, nil
}

func (r *CLIReader) args() []string {
	// Each commit header is prefixed by 0x1e (record separator) with NUL separated
	// fields, so the combined --numstat -z output splits into records on 0x1e.
	const format = "%x1e%H%x00%P%x00%aI%x00%an%x00%ae%x00%s%n"

	args := []string{
		"-c", "log.showRoot=false",
		"-C", r.opts.RepoPath,
		"log",
		"-n", strconv.Itoa(r.opts.maxCount()),
		"--no-color",
		"--diff-merges=first-parent",
		"--pretty=format:" + format,
		"--numstat", "-z",
	}

	rev := strings.TrimSpace(r.opts.Branch)
	if rev != "" && !strings.EqualFold(rev, "HEAD") {
		args = append(args, rev, "--")
	}
	return args
}

func parseNumstatLog(out []byte) ([]CommitChangeSet, error) {
	records := bytes.Split(out, []byte{0x1e})
	results := make([]CommitChangeSet, 0, len(records))

	for _, rec := range records {
		if len(bytes.Trim(rec, "\x00\n\r")) == 0 {
			continue
		}

		header, body := rec, []byte(nil)
		if idx := bytes.IndexByte(rec, '\n'); idx != -1 {
			header, body = rec[:idx], rec[idx+1:]
		}

		fields := bytes.SplitN(header, []byte{0x00}, 6)
		if len(fields) < 6 {
			return nil, errm.New("unexpected git log header format")
		}

		when, err := time.Parse(time.RFC3339, string(fields[2]))
		if err != nil {
			return nil, errm.Wrap(err, "parse author date")
		}

		changes, err := parseNumstatBody(body)
		if err != nil {
			return nil, errm.Wrap(err, "parse numstat", "commit", string(fields[0]))
		}

		results = append(results, CommitChangeSet{
			Commit: CommitInfo{
				SHA:     string(fields[0]),
				When:    when,
				Author:  AuthorInfo{Name: string(fields[3]), Email: string(fields[4])},
				Message: string(fields[5]),
				Parents: len(strings.Fields(string(fields[1]))),
			},
			Changes: changes,
		})
	}

	return results, nil
}

// parseNumstatBody parses NUL terminated `added\tdeleted\tpath` entries.
// Renames have an empty path followed by old\0new\0. Binary files report "-".
func parseNumstatBody(body []byte) ([]FileChange, error) {
	var changes []FileChange
	i := 0
	for {
		for i < len(body) && (body[i] == '\n' || body[i] == '\r' || body[i] == 0) {
			i++
		}
		if i >= len(body) {
			return changes, nil
		}

		added, err := readNumstatField(body, &i)
		if err != nil {
			return nil, err
		}
		deleted, err := readNumstatField(body, &i)
		if err != nil {
			return nil, err
		}

		if i < len(body) && body[i] == 0 {
			i++
			if _, ok := readUntilNUL(body, &i); !ok {
				return nil, errm.New("missing rename source path")
			}
		}
		path, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, errm.New("missing path")
		}

		changes = append(changes, FileChange{
			Path:         string(path),
			LinesAdded:   added,
			LinesDeleted: deleted,
		})
	}
}

func readNumstatField(b []byte, i *int) (int, error) {
	j := bytes.IndexByte(b[*i:], '\t')
	if j == -1 {
		return 0, errm.New("missing numstat field")
	}
	field := b[*i : *i+j]
	*i += j + 1

	if len(field) == 1 && field[0] == '-' {
		return 0, nil
	}
	n, err := strconv.Atoi(string(field))
	if err != nil {
		return 0, errm.Wrap(err, "parse numstat int", "field", string(field))
	}
	return n, nil
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		// The final entry may lack its terminator.
		start := *i
		*i = len(b)
		return b[start:], true
	}
	start := *i
	*i += j + 1
	return b[start : start+j], true
}
