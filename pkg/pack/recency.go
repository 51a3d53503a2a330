package pack

import (
	"bufio"
	"bytes"
	"math"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Boosts converts a path->commit-timestamp map into a path->boost map.
// Entries are ranked ascending by timestamp; the oldest gets 0, the newest
// exactly maxBoost, and ranks in between scale linearly. With one entry or
// fewer there is no spread to normalize against and every boost is 0.
// Identical timestamps are ordered by path so the result is deterministic.
func Boosts(times map[string]int64, maxBoost int) map[string]int {
	boosts := make(map[string]int, len(times))
	if len(times) == 0 {
		return boosts
	}

	type entry struct {
		path string
		ts   int64
	}
	entries := make([]entry, 0, len(times))
	for path, ts := range times {
		entries = append(entries, entry{path: path, ts: ts})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ts != entries[j].ts {
			return entries[i].ts < entries[j].ts
		}
		return entries[i].path < entries[j].path
	})

	n := len(entries)
	for i, e := range entries {
		if n <= 1 {
			boosts[e.path] = 0
			continue
		}
		boosts[e.path] = int(math.Round(float64(i) / float64(n-1) * float64(maxBoost)))
	}
	return boosts
}

// GitCommitTimes returns the newest commit timestamp per path under root,
// relative to root, from a single `git log` invocation. A missing git
// binary, a directory outside any repository, or an empty history all
// yield nil: recency is an optional signal, never an error.
func GitCommitTimes(root string, logger *zap.Logger) map[string]int64 {
	if logger == nil {
		logger = zap.NewNop()
	}

	top, err := exec.Command("git", "-C", root, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		logger.Debug("No git repository for recency boost", zap.String("root", root), zap.Error(err))
		return nil
	}
	repoRoot := strings.TrimSpace(string(top))

	out, err := exec.Command("git", "-C", root, "log", "--pretty=format:commit:%ct", "--name-only", "--", ".").Output()
	if err != nil {
		logger.Debug("git log failed, skipping recency boost", zap.String("root", root), zap.Error(err))
		return nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	// git resolves symlinks in --show-toplevel; match that so Rel works
	// under symlinked temp directories.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	// git log emits newest-first: a commit:<ts> header, then the paths
	// touched by that commit. The first timestamp seen for a path is
	// therefore its newest. The sentinel prefix keeps a file that happens
	// to be named like a number from being mistaken for a header.
	times := make(map[string]int64)
	var current int64
	haveTimestamp := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if rest, found := strings.CutPrefix(line, "commit:"); found {
			if ts, err := strconv.ParseInt(rest, 10, 64); err == nil {
				current = ts
				haveTimestamp = true
				continue
			}
		}
		if !haveTimestamp {
			continue
		}
		// Paths are repo-relative; map them to root-relative.
		abs := filepath.Join(repoRoot, filepath.FromSlash(line))
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if _, seen := times[rel]; !seen {
			times[rel] = current
		}
	}

	if len(times) == 0 {
		return nil
	}
	logger.Debug("Collected git commit times", zap.Int("paths", len(times)))
	return times
}
