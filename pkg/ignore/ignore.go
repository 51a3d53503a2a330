// Package ignore implements gitignore-style path exclusion: wildcard
// patterns translated to anchored regular expressions, with '!' negation
// lines that re-include previously excluded paths. The last matching
// pattern wins, so an allow-list line always beats an earlier exclusion.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern is one compiled ignore line together with its origin metadata.
type Pattern struct {
	Regex  *regexp.Regexp // Compiled regular expression for the pattern.
	Negate bool           // True when the line starts with '!'.
	Line   string         // Original pattern line.
	LineNo int            // Line number in the source (1-based).
}

// RuleSet is an ordered collection of ignore patterns.
type RuleSet struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty RuleSet. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleSet{logger: logger}
}

// Load builds a RuleSet from a global ignore file followed by a local one,
// in that order, so local patterns take precedence under last-match-wins.
// Missing files are skipped silently; they are the common case.
func Load(localPath, globalPath string, logger *zap.Logger) *RuleSet {
	rs := New(logger)

	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		if err := rs.AddFile(path); err != nil {
			if !os.IsNotExist(err) {
				rs.logger.Warn("Failed to load ignore file", zap.String("file", path), zap.Error(err))
			}
			continue
		}
		rs.logger.Debug("Loaded ignore file", zap.String("file", path))
	}

	return rs
}

// AddFile reads an ignore file and appends its patterns to the set.
func (rs *RuleSet) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rs.addLines(strings.Split(string(content), "\n"))
	return nil
}

// AddLines appends raw pattern lines (CLI or config supplied) to the set.
func (rs *RuleSet) AddLines(lines ...string) {
	rs.addLines(lines)
}

func (rs *RuleSet) addLines(lines []string) {
	for i, line := range lines {
		re, negate, ok := parsePatternLine(line)
		if !ok {
			continue
		}
		if re == nil {
			// An unparseable pattern never matches anything; it must not
			// poison the rest of the set.
			rs.logger.Warn("Skipping ignore pattern that failed to compile",
				zap.Int("lineNo", i+1),
				zap.String("pattern", line))
			continue
		}
		rs.patterns = append(rs.patterns, &Pattern{
			Regex:  re,
			Negate: negate,
			Line:   strings.TrimSpace(line),
			LineNo: i + 1,
		})
	}
}

// Len reports the number of compiled patterns in the set.
func (rs *RuleSet) Len() int {
	return len(rs.patterns)
}

// Match reports whether the given slash-relative path is excluded.
func (rs *RuleSet) Match(path string) bool {
	matched, _ := rs.MatchWithPattern(path)
	return matched
}

// MatchWithPattern reports whether path is excluded and returns the pattern
// that decided the outcome. Patterns are evaluated in order and the last
// matching line wins, so negation re-includes paths excluded earlier.
func (rs *RuleSet) MatchWithPattern(path string) (bool, *Pattern) {
	normalized := filepath.ToSlash(path)

	matched := false
	var decided *Pattern

	for _, p := range rs.patterns {
		if !p.Regex.MatchString(normalized) {
			continue
		}
		decided = p
		matched = !p.Negate
	}

	return matched, decided
}

// parsePatternLine turns one ignore-file line into a compiled regex and a
// negation flag. ok is false for blank lines and comments; a nil regex with
// ok true marks a pattern that failed to compile.
func parsePatternLine(line string) (re *regexp.Regexp, negate, ok bool) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, false
	}

	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	// Escaped leading '#' or '!' are literals.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	expr := escapeSpecialChars(trimmed)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = anchorPattern(expr, trimmed)

	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, negate, true
	}

	return compiled, negate, true
}

// Precompiled regular expressions used in pattern translation.
var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
	singleStarPattern         = regexp.MustCompile(`\*`)
)

// escapeSpecialChars escapes regex special characters except '*', '?' and '/'.
func escapeSpecialChars(pattern string) string {
	specialChars := `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' patterns with regex equivalents.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllString(pattern, `(/|/.+/)`)
	pattern = doubleStarTrailingPattern.ReplaceAllString(pattern, `(/.*)?`)
	pattern = doubleStarLeadingPattern.ReplaceAllString(pattern, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts '*' and '?' wildcards to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = singleStarPattern.ReplaceAllString(pattern, `[^/]*`)
	return strings.ReplaceAll(pattern, "?", ".")
}

// anchorPattern anchors the regex to match the whole path. Patterns ending
// in '/' match only directories (and everything under them); patterns with
// a leading '/' are root-relative, all others match at any depth.
func anchorPattern(pattern, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/") + "(/.*)?$"
	} else {
		pattern = pattern + "(/.*)?$"
	}

	if strings.HasPrefix(originalPattern, "/") {
		return "^" + strings.TrimPrefix(pattern, `/`)
	}
	return "^(|.*/)" + pattern
}
