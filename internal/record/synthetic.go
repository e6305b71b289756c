package record

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// DefaultSyntheticCount is the number of commits generated when a repository
// cannot be read.
const DefaultSyntheticCount = 20

var (
	syntheticAuthors  = []string{"Alice", "Bob", "Charlie", "Diana"}
	syntheticMessages = []string{
		"Add new feature",
		"Fix bug in parser",
		"Update documentation",
		"Refactor code structure",
		"Improve performance",
		"Add tests",
		"Fix typo",
		"Merge branch",
	}
)

// Synthetic generates n plausible commits ending at now, oldest first.
// Generated commits carry no file list, so they all map to the default timbre.
func Synthetic(n int, rng *rand.Rand, now time.Time) []Commit {
	if n <= 0 {
		return nil
	}

	commits := make([]Commit, 0, n)
	for i := 0; i < n; i++ {
		age := time.Duration(float64(i) * float64(24*time.Hour) * rng.Float64() * 10)
		commits = append(commits, Commit{
			Hash:      fmt.Sprintf("%07x", rng.Uint32()&0xfffffff),
			Author:    syntheticAuthors[rng.Intn(len(syntheticAuthors))],
			Message:   syntheticMessages[rng.Intn(len(syntheticMessages))],
			Date:      now.Add(-age),
			Additions: rng.Intn(100) + 1,
			Deletions: rng.Intn(50),
		})
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Date.Before(commits[j].Date)
	})
	return commits
}
