package sweeper

import (
	"strings"

	"github.com/moby/patternmatcher"

	"github.com/branchtools/sweep/errors"
)

// Rules decides which branches are untouchable and how long the rest
// are retained.
type Rules struct {
	thresholds map[string]int
	matcher    *patternmatcher.PatternMatcher
}

// NewRules builds retention rules from per-prefix thresholds and exclusion
// patterns. Patterns follow dockerignore-style matching, so both literal
// branch names and globs like 'release/*' work.
func NewRules(thresholds map[string]int, excludePatterns []string) (*Rules, error) {
	if _, ok := thresholds["default"]; !ok {
		return nil, errors.New(errors.ErrCodeConfigValidation, "thresholds must define a 'default' entry")
	}

	matcher, err := patternmatcher.New(excludePatterns)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "compile branch exclusion patterns")
	}

	return &Rules{
		thresholds: thresholds,
		matcher:    matcher,
	}, nil
}

// Excluded reports whether the branch is never a deletion candidate.
func (r *Rules) Excluded(branch string) bool {
	matched, err := r.matcher.MatchesOrParentMatches(branch)
	if err != nil {
		// Treat unmatched patterns conservatively
		return true
	}
	return matched
}

// Threshold returns the retention period in days for a branch, keyed by
// the prefix before the first slash.
func (r *Rules) Threshold(branch string) int {
	prefix := branch
	if idx := strings.Index(branch, "/"); idx >= 0 {
		prefix = branch[:idx]
	}

	if days, ok := r.thresholds[prefix]; ok {
		return days
	}
	return r.thresholds["default"]
}
