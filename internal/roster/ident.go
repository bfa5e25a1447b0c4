package roster

import (
	"fmt"
	"regexp"
)

// DefaultIDPattern matches PlayFab IDs. Deployments have seen both 14-16
// and 15-16 character IDs, so the bound is configurable.
const DefaultIDPattern = `^\S{14,16}$`

// IDRule decides whether a lookup query should be treated as a PlayFab ID.
type IDRule struct {
	re *regexp.Regexp
}

// NewIDRule compiles pattern; an empty pattern uses DefaultIDPattern.
func NewIDRule(pattern string) (*IDRule, error) {
	if pattern == "" {
		pattern = DefaultIDPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile playfab id pattern: %w", err)
	}
	return &IDRule{re: re}, nil
}

// Match reports whether s looks like a PlayFab ID. A nil rule uses the
// default pattern.
func (r *IDRule) Match(s string) bool {
	if r == nil {
		return defaultRule.re.MatchString(s)
	}
	return r.re.MatchString(s)
}

var defaultRule = &IDRule{re: regexp.MustCompile(DefaultIDPattern)}
