package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Aggregate drains the chunk channel, restores total order and folds the
// stream into chunk-N.txt artifacts under outputDir. Delivery order across
// concurrent workers is not trustworthy, so the drained set is re-sorted
// by (priority, fileIndex, partIndex) before folding.
//
// Two triggers flush the running buffer: appending the next chunk would
// exceed maxSize, or the next chunk carries a different priority. An
// artifact therefore never spans two priority values, and artifacts come
// out in ascending-priority order. A write failure is fatal: a silently
// missing artifact would corrupt the output contract. Artifacts flushed
// before the failure stay on disk.
func Aggregate(chunks <-chan FileChunk, outputDir string, maxSize int, sizer Sizer, logger *zap.Logger) ([]string, error) {
	if sizer == nil {
		sizer = ByteSizer
	}

	var drained []FileChunk
	for c := range chunks {
		drained = append(drained, c)
	}
	if len(drained) == 0 {
		return nil, nil
	}

	sort.Slice(drained, func(i, j int) bool {
		a, b := drained[i], drained[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.FileIndex != b.FileIndex {
			return a.FileIndex < b.FileIndex
		}
		return a.PartIndex < b.PartIndex
	})

	var (
		buf         strings.Builder
		bufSize     int
		bufPriority int
		artifacts   []string
	)

	flush := func() error {
		path := filepath.Join(outputDir, fmt.Sprintf("chunk-%d.txt", len(artifacts)))
		if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
			logger.Error("Failed to write chunk artifact", zap.String("path", path), zap.Error(err))
			return fmt.Errorf("failed to write artifact %s: %w", path, err)
		}
		logger.Debug("Flushed chunk artifact",
			zap.String("path", path),
			zap.Int("priority", bufPriority),
			zap.Int("size", bufSize))
		artifacts = append(artifacts, path)
		buf.Reset()
		bufSize = 0
		return nil
	}

	for _, c := range drained {
		formatted := formatChunk(c)
		size := sizer(formatted)

		if buf.Len() > 0 && (c.Priority != bufPriority || bufSize+size > maxSize) {
			if err := flush(); err != nil {
				return artifacts, err
			}
		}
		if buf.Len() == 0 {
			bufPriority = c.Priority
		}
		buf.WriteString(formatted)
		bufSize += size
	}

	if buf.Len() > 0 {
		if err := flush(); err != nil {
			return artifacts, err
		}
	}

	return artifacts, nil
}

// formatChunk renders one chunk for the artifact: a header line with the
// display path, the content, and a blank-line separator.
func formatChunk(c FileChunk) string {
	return fmt.Sprintf("# Source: %s\n\n%s\n\n", c.RelPath, c.Content)
}
