// Package pack implements the ranking-and-chunking engine: it scans a
// directory tree, scores each text file from regex rules plus git recency,
// reads files across a worker pool, and reassembles the results into
// ordered, size-bounded chunk artifacts.
package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"packflow/pkg/ignore"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// lockFileName guards the output directory against concurrent runs that
// would interleave their chunk-N.txt sequences.
const lockFileName = ".packflow.lock"

// ignoreFileName is the local ignore file loaded from the scan root.
const ignoreFileName = ".packignore"

// Run executes one pack run and returns the artifact paths written, in
// flush (ascending-priority) order. An empty scan yields no artifacts and
// no error.
func Run(opts Options, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	if opts.ChannelCapacity <= 0 {
		opts.ChannelCapacity = DefaultChannelCapacity
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	logger.Info("Starting pack run",
		zap.String("root", absRoot),
		zap.String("outputDir", opts.OutputDir),
		zap.Int("maxSize", opts.MaxSize))

	// The output directory exists before any worker starts.
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(opts.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is locked by another run", opts.OutputDir)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("Failed to release output directory lock", zap.Error(unlockErr))
		}
	}()

	matcher := ignore.Load(filepath.Join(absRoot, ignoreFileName), opts.GlobalIgnoreFile, logger)
	matcher.AddLines(".git/", ignoreFileName)
	if len(opts.IgnorePatterns) > 0 {
		matcher.AddLines(opts.IgnorePatterns...)
		logger.Debug("Added custom ignore patterns", zap.Int("count", len(opts.IgnorePatterns)))
	}
	// Never pack our own output when it nests under the root.
	if rel, relErr := filepath.Rel(absRoot, opts.OutputDir); relErr == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		matcher.AddLines("/" + filepath.ToSlash(rel) + "/")
	}

	var boosts map[string]int
	if !opts.NoRecency {
		boosts = Boosts(GitCommitTimes(absRoot, logger), opts.MaxBoost)
	}

	rules := CompileRules(opts.Rules, logger)

	files, err := Collect(absRoot, matcher, rules, boosts, logger, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No files to pack after filtering")
		return nil, nil
	}
	logger.Info("Collected files", zap.Int("count", len(files)))

	chunks := Produce(files, opts.MaxSize, opts.MaxWorkers, opts.ChannelCapacity, logger)
	artifacts, err := Aggregate(chunks, opts.OutputDir, opts.MaxSize, ByteSizer, logger)
	if err != nil {
		return artifacts, err
	}

	if opts.Tree {
		treeContent, treeErr := GenerateTree(absRoot, matcher, logger)
		if treeErr != nil {
			logger.Warn("Failed to generate tree structure", zap.Error(treeErr))
		} else {
			treePath := filepath.Join(opts.OutputDir, "tree.txt")
			if writeErr := os.WriteFile(treePath, []byte(treeContent), 0o644); writeErr != nil {
				logger.Warn("Failed to write tree file", zap.String("path", treePath), zap.Error(writeErr))
			}
		}
	}

	logger.Info("Pack run completed",
		zap.Int("files", len(files)),
		zap.Int("artifacts", len(artifacts)),
		zap.Duration("elapsed", time.Since(startTime)))
	printSummary(len(files), artifacts, time.Since(startTime))

	return artifacts, nil
}

// printSummary writes a short human-facing report to stdout, colorized
// when stdout is a terminal.
func printSummary(fileCount int, artifacts []string, elapsed time.Duration) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	color.New(color.FgGreen, color.Bold).Printf("Packed %d files into %d chunks in %s\n",
		fileCount, len(artifacts), elapsed.Round(time.Millisecond))
	for _, path := range artifacts {
		fmt.Printf("  %s\n", path)
	}
}
