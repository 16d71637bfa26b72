// Package rules assigns categories to transactions from declarative pattern
// rules.
package rules

import (
	"fmt"
	"regexp"
	"sort"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/models"

	"github.com/shopspring/decimal"
)

type compiledRule struct {
	rule models.Rule
	re   *regexp.Regexp
}

// Matcher evaluates a fixed, ordered set of active rules.
type Matcher struct {
	rules []compiledRule
}

// CompilePattern compiles a rule pattern for case-insensitive, unanchored
// search.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rule pattern %q: %v", ledgererror.ErrValidation, pattern, err)
	}
	return re, nil
}

// NewMatcher compiles the active rules and orders them by priority, then id.
// Inactive rules are dropped.
func NewMatcher(rules []models.Rule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if !r.Active {
			continue
		}
		re, err := CompilePattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", r.ID, err)
		}
		compiled = append(compiled, compiledRule{rule: r, re: re})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		a, b := compiled[i].rule, compiled[j].rule
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
	return &Matcher{rules: compiled}, nil
}

// Len returns the number of active rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// Match returns the first rule satisfied by description and amount.
func (m *Matcher) Match(description string, amount decimal.Decimal) (models.Rule, bool) {
	for _, c := range m.rules {
		if !inRange(c.rule, amount) {
			continue
		}
		if c.re.MatchString(description) {
			return c.rule, true
		}
	}
	return models.Rule{}, false
}

func inRange(r models.Rule, amount decimal.Decimal) bool {
	if r.AmountMin != nil && amount.LessThan(*r.AmountMin) {
		return false
	}
	if r.AmountMax != nil && amount.GreaterThan(*r.AmountMax) {
		return false
	}
	return true
}
