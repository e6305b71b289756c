package git

import "github.com/maxbolgarin/errm"

var (
	// ErrNotRepository is returned when a path does not contain a Git repository.
	ErrNotRepository = errm.New("not a valid git repository")

	// ErrCloneFailed is returned when a remote repository cannot be cloned.
	ErrCloneFailed = errm.New("failed to clone repository")
)

func errCloneFailed(url string, cause error) error {
	return errm.Wrap(ErrCloneFailed, "clone", "url", url, "error", cause.Error())
}

func errInvalidPattern(pattern string) error {
	return errm.Errorf("invalid glob pattern %q", pattern)
}
