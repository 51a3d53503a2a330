package pack

import (
	"regexp"

	"go.uber.org/zap"
)

// Rule assigns a score to every path matching a regular expression.
// Rules are unordered; overlapping matches resolve to the maximum score.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Score   int    `yaml:"score"`
}

type compiledRule struct {
	regex *regexp.Regexp
	score int
}

// RuleSet is a compiled set of priority rules. Scoring is read-only after
// compilation and safe for concurrent use.
type RuleSet struct {
	rules []compiledRule
}

// CompileRules compiles the rule patterns. A pattern that fails to compile
// is logged and dropped; it never matches and never aborts the run.
func CompileRules(rules []Rule, logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			logger.Warn("Skipping priority rule with invalid pattern",
				zap.String("pattern", r.Pattern),
				zap.Error(err))
			continue
		}
		rs.rules = append(rs.rules, compiledRule{regex: re, score: r.Score})
	}
	return rs
}

// Score returns the maximum score among rules matching relPath, or 0 when
// no rule matches. Scores may be negative, so a matching rule can demote a
// file below the unmatched default. Matching is case-sensitive with no
// implicit anchoring.
func (rs *RuleSet) Score(relPath string) int {
	best := 0
	matched := false
	for _, r := range rs.rules {
		if !r.regex.MatchString(relPath) {
			continue
		}
		if !matched || r.score > best {
			best = r.score
			matched = true
		}
	}
	return best
}
