package filter

import (
	"path/filepath"

	"github.com/dyluth/figplot/internal/resultstore"
)

// Criteria selects published runs. All set fields must match.
type Criteria struct {
	SinceTimestampMs int64  // Unix timestamp in milliseconds, 0 = no filter
	UntilTimestampMs int64  // Unix timestamp in milliseconds, 0 = no filter
	RootGlob         string // Glob pattern for the run's output tree, empty = no filter
}

// Matches reports whether r satisfies every criterion.
func (c *Criteria) Matches(r *resultstore.Run) bool {
	if c.SinceTimestampMs > 0 && r.CreatedAtMs < c.SinceTimestampMs {
		return false
	}
	if c.UntilTimestampMs > 0 && r.CreatedAtMs > c.UntilTimestampMs {
		return false
	}

	if c.RootGlob != "" {
		matched, err := filepath.Match(c.RootGlob, r.Root)
		if err != nil || !matched {
			return false
		}
	}

	return true
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.SinceTimestampMs > 0 || c.UntilTimestampMs > 0 || c.RootGlob != ""
}

// Runs returns the runs matching c, keeping their order.
func (c *Criteria) Runs(runs []*resultstore.Run) []*resultstore.Run {
	if !c.HasFilters() {
		return runs
	}
	kept := make([]*resultstore.Run, 0, len(runs))
	for _, r := range runs {
		if c.Matches(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
