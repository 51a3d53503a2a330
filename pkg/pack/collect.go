package pack

import (
	"io/fs"
	"path/filepath"
	"sort"

	"packflow/pkg/ignore"

	"go.uber.org/zap"
)

// Collect walks the tree rooted at root and returns the surviving files
// sorted ascending by (priority, boost), so low-priority content leads and
// the highest-scored material lands at the end of the assembled output.
// FileIndex records discovery order and is never recomputed; the stable
// sort keeps it as the final tiebreak. Discovery never aborts for a single
// bad entry: unreadable paths are logged and skipped.
func Collect(root string, matcher *ignore.RuleSet, rules *RuleSet, boosts map[string]int, logger *zap.Logger, verbose bool) ([]FileDescriptor, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []FileDescriptor
	nextIndex := 0

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			logger.Warn("Failed to compute relative path", zap.String("path", path), zap.Error(relErr))
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if matcher.Match(rel) {
				if verbose {
					logger.Debug("Skipping ignored directory", zap.String("directory", rel))
				}
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.Match(rel) {
			if verbose {
				logger.Debug("Skipping ignored file", zap.String("file", rel))
			}
			return nil
		}

		isText, textErr := isTextFile(path)
		if textErr != nil {
			logger.Warn("Failed to sniff file, skipping", zap.String("file", rel), zap.Error(textErr))
			return nil
		}
		if !isText {
			if verbose {
				logger.Debug("Skipping binary file", zap.String("file", rel))
			}
			return nil
		}

		boost := boosts[rel]
		files = append(files, FileDescriptor{
			Path:      path,
			Rel:       rel,
			Priority:  rules.Score(rel) + boost,
			Boost:     boost,
			FileIndex: nextIndex,
		})
		nextIndex++
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Priority != files[j].Priority {
			return files[i].Priority < files[j].Priority
		}
		return files[i].Boost < files[j].Boost
	})

	return files, nil
}
