package pack

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sequentialThreshold is the file count below which a single worker is
// enough. The same read/split/skip algorithm runs at every size; one
// worker simply is the sequential path.
const sequentialThreshold = 10

// Produce fans the sorted file list out across a fixed worker pool and
// returns the bounded channel the chunks arrive on. Each worker owns one
// contiguous slice of the sorted list, so workers never contend over
// files; the channel is the only synchronization point and is closed once
// every worker has drained its slice.
//
// Oversized files are split into maxSize byte ranges with ascending part
// indexes. A file that fails to read is logged and skipped; it never
// aborts the worker's remaining files or its siblings.
func Produce(files []FileDescriptor, maxSize, maxWorkers, capacity int, logger *zap.Logger) <-chan FileChunk {
	if capacity <= 0 {
		capacity = DefaultChannelCapacity
	}
	out := make(chan FileChunk, capacity)

	workers := workerCount(len(files), maxWorkers)
	if workers == 0 {
		close(out)
		return out
	}
	logger.Debug("Starting chunk producers",
		zap.Int("files", len(files)),
		zap.Int("workers", workers))

	var g errgroup.Group
	for _, slice := range partition(files, workers) {
		slice := slice
		g.Go(func() error {
			produceSlice(slice, maxSize, out, logger)
			return nil
		})
	}

	go func() {
		// Workers only log failures, they never return errors.
		_ = g.Wait()
		close(out)
	}()

	return out
}

// workerCount sizes the pool: the configured count (or NumCPU when
// unset), capped so no worker starts with fewer than roughly
// sequentialThreshold files.
func workerCount(n, configured int) int {
	if n == 0 {
		return 0
	}
	workers := configured
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	bands := (n + sequentialThreshold - 1) / sequentialThreshold
	if workers > bands {
		workers = bands
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// partition splits files into n contiguous slices in sorted order, so each
// worker handles one contiguous priority band.
func partition(files []FileDescriptor, n int) [][]FileDescriptor {
	slices := make([][]FileDescriptor, 0, n)
	total := len(files)
	start := 0
	for i := 0; i < n; i++ {
		size := total / n
		if i < total%n {
			size++
		}
		slices = append(slices, files[start:start+size])
		start += size
	}
	return slices
}

func produceSlice(slice []FileDescriptor, maxSize int, out chan<- FileChunk, logger *zap.Logger) {
	for _, fd := range slice {
		data, err := os.ReadFile(fd.Path)
		if err != nil {
			logger.Warn("Failed to read file, skipping",
				zap.String("file", fd.Rel),
				zap.Error(err))
			continue
		}

		// Invalid encoding is replaced, never fatal.
		content := strings.ToValidUTF8(string(data), "�")

		if len(content) <= maxSize {
			out <- FileChunk{
				Priority:  fd.Priority,
				FileIndex: fd.FileIndex,
				RelPath:   fd.Rel,
				Content:   content,
			}
			continue
		}

		for part := 0; len(content) > 0; part++ {
			end := maxSize
			if end > len(content) {
				end = len(content)
			}
			relPath := fd.Rel
			if part > 0 {
				relPath += ":part" + strconv.Itoa(part)
			}
			out <- FileChunk{
				Priority:  fd.Priority,
				FileIndex: fd.FileIndex,
				PartIndex: part,
				RelPath:   relPath,
				Content:   content[:end],
			}
			content = content[end:]
		}
	}
}
