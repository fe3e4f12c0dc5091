// Package classification maps transaction descriptions to categories using
// an ordered list of regular-expression rules.
package classification

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fincompar/fincompar/internal/model"
)

// Rule associates a regex pattern with the category it assigns. Patterns
// are matched case-insensitively.
type Rule struct {
	Category model.Category
	Pattern  string
}

type compiledRule struct {
	regex    *regexp.Regexp
	category model.Category
}

// Categorizer classifies descriptions by evaluating its rules in order and
// returning the category of the first match. It has no mutable state and is
// safe for concurrent use.
type Categorizer struct {
	rules []compiledRule
}

// NewCategorizer compiles the given rules, preserving their order.
func NewCategorizer(rules []Rule) (*Categorizer, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		pattern := r.Pattern
		if !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}

		regex, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule for %s: %w", r.Category, err)
		}

		compiled = append(compiled, compiledRule{
			regex:    regex,
			category: r.Category,
		})
	}

	return &Categorizer{rules: compiled}, nil
}

// Categorize returns the category of the first matching rule, or
// model.CategoryOther when nothing matches. It never fails: an unmatched
// description is not an error.
func (c *Categorizer) Categorize(description string) model.Category {
	for _, rule := range c.rules {
		if rule.regex.MatchString(description) {
			return rule.category
		}
	}
	return model.CategoryOther
}

// RuleCount returns the number of loaded rules.
func (c *Categorizer) RuleCount() int {
	return len(c.rules)
}
