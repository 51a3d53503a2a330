package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"packflow/pkg/ignore"

	"go.uber.org/zap"
)

// GenerateTree renders a box-drawing directory tree for root, honoring the
// same ignore decisions as the collector, so the tree mirrors exactly what
// was packed.
func GenerateTree(root string, matcher *ignore.RuleSet, logger *zap.Logger) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root for tree: %w", err)
	}

	var tree strings.Builder
	tree.WriteString(filepath.Base(absRoot) + "/\n")

	subtree, err := treeLevel(absRoot, absRoot, matcher, "", logger)
	if err != nil {
		return "", err
	}
	if subtree != "" {
		tree.WriteString(subtree)
		tree.WriteString("\n")
	}

	return tree.String(), nil
}

// treeLevel builds one directory level recursively.
func treeLevel(directory, root string, matcher *ignore.RuleSet, prefix string, logger *zap.Logger) (string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return "", fmt.Errorf("failed to read directory '%s': %w", directory, err)
	}

	// Directories first, then files, alphabetically.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var visible []os.DirEntry
	for _, entry := range entries {
		entryPath := filepath.Join(directory, entry.Name())
		rel, relErr := filepath.Rel(root, entryPath)
		if relErr != nil {
			continue
		}
		if matcher.Match(filepath.ToSlash(rel)) {
			continue
		}
		visible = append(visible, entry)
	}

	var output []string
	for i, entry := range visible {
		connector := "├── "
		extension := "│   "
		if i == len(visible)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.IsDir() {
			output = append(output, fmt.Sprintf("%s%s%s/", prefix, connector, entry.Name()))
			subtree, err := treeLevel(filepath.Join(directory, entry.Name()), root, matcher, prefix+extension, logger)
			if err != nil {
				logger.Warn("Failed to render subtree",
					zap.String("directory", filepath.Join(directory, entry.Name())),
					zap.Error(err))
				continue
			}
			if subtree != "" {
				output = append(output, subtree)
			}
		} else {
			output = append(output, fmt.Sprintf("%s%s%s", prefix, connector, entry.Name()))
		}
	}

	return strings.Join(output, "\n"), nil
}
