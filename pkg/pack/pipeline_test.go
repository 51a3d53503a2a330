package pack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func drain(ch <-chan FileChunk) []FileChunk {
	var chunks []FileChunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	return chunks
}

func TestProduceWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "small.txt", []byte("hello"))

	files := []FileDescriptor{{Path: path, Rel: "small.txt", Priority: 3, FileIndex: 0}}
	chunks := drain(Produce(files, 1024, 1, 0, zap.NewNop()))

	require.Len(t, chunks, 1)
	assert.Equal(t, "small.txt", chunks[0].RelPath)
	assert.Equal(t, "hello", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].PartIndex)
	assert.Equal(t, 3, chunks[0].Priority)
}

func TestProduceSplitsOversized(t *testing.T) {
	dir := t.TempDir()
	content := "0123456789abcdefghijKLMNO" // 25 bytes
	path := writeFile(t, dir, "big.txt", []byte(content))

	files := []FileDescriptor{{Path: path, Rel: "big.txt", FileIndex: 0}}
	chunks := drain(Produce(files, 10, 1, 0, zap.NewNop()))

	require.Len(t, chunks, 3)
	assert.Equal(t, "big.txt", chunks[0].RelPath)
	assert.Equal(t, "big.txt:part1", chunks[1].RelPath)
	assert.Equal(t, "big.txt:part2", chunks[2].RelPath)
	for i, c := range chunks {
		assert.Equal(t, i, c.PartIndex)
		assert.LessOrEqual(t, len(c.Content), 10)
	}
	assert.Equal(t, content, chunks[0].Content+chunks[1].Content+chunks[2].Content)
}

func TestProduceSkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", []byte("fine"))

	files := []FileDescriptor{
		{Path: dir + "/missing.txt", Rel: "missing.txt", FileIndex: 0},
		{Path: good, Rel: "good.txt", FileIndex: 1},
	}
	chunks := drain(Produce(files, 1024, 1, 0, zap.NewNop()))

	// The bad file is skipped, the rest of the slice still flows.
	require.Len(t, chunks, 1)
	assert.Equal(t, "good.txt", chunks[0].RelPath)
}

func TestProduceReplacesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latin1.txt", []byte{'c', 'a', 'f', 0xE9})

	files := []FileDescriptor{{Path: path, Rel: "latin1.txt", FileIndex: 0}}
	chunks := drain(Produce(files, 1024, 1, 0, zap.NewNop()))

	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "caf"))
	assert.Contains(t, chunks[0].Content, "�")
}

func TestProduceManyFilesAcrossWorkers(t *testing.T) {
	dir := t.TempDir()
	var files []FileDescriptor
	for i := 0; i < 40; i++ {
		name := string(rune('a'+i%26)) + strings.Repeat("x", i/26+1) + ".txt"
		path := writeFile(t, dir, name, []byte(name))
		files = append(files, FileDescriptor{Path: path, Rel: name, Priority: i, FileIndex: i})
	}

	chunks := drain(Produce(files, 1024, 4, 8, zap.NewNop()))
	require.Len(t, chunks, 40)

	seen := map[int]bool{}
	for _, c := range chunks {
		seen[c.FileIndex] = true
	}
	assert.Len(t, seen, 40, "every file emitted exactly once")
}

func TestProduceEmptyFileList(t *testing.T) {
	chunks := drain(Produce(nil, 1024, 0, 0, zap.NewNop()))
	assert.Empty(t, chunks)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 0, workerCount(0, 4))
	assert.Equal(t, 1, workerCount(5, 4), "small sets run on a single worker")
	assert.Equal(t, 1, workerCount(10, 8))
	assert.Equal(t, 2, workerCount(11, 8))
	assert.Equal(t, 4, workerCount(100, 4), "configured count wins when bands allow")
}

func TestPartitionContiguousAndComplete(t *testing.T) {
	files := make([]FileDescriptor, 10)
	for i := range files {
		files[i].FileIndex = i
	}

	slices := partition(files, 3)
	require.Len(t, slices, 3)

	next := 0
	for _, slice := range slices {
		for _, fd := range slice {
			assert.Equal(t, next, fd.FileIndex, "slices are contiguous in sorted order")
			next++
		}
	}
	assert.Equal(t, 10, next)
}
