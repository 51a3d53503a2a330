package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	opts := Options{
		Root:            ".",
		OutputDir:       "chunks",
		MaxSize:         1024,
		ChannelCapacity: 16,
	}
	assert.NoError(t, opts.Validate())

	missing := opts
	missing.OutputDir = ""
	assert.Error(t, missing.Validate())

	zeroSize := opts
	zeroSize.MaxSize = 0
	assert.Error(t, zeroSize.Validate())

	negativeBoost := opts
	negativeBoost.MaxBoost = -1
	assert.Error(t, negativeBoost.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "packflow.yaml", []byte(`
rules:
  - pattern: '\.go$'
    score: 10
  - pattern: '^docs/'
    score: 2
ignore:
  - "*.tmp"
max_boost: 15
max_size: 2MB
workers: 6
channel_capacity: 256
`))

	opts := Options{MaxSize: DefaultMaxSize, MaxBoost: DefaultMaxBoost}
	require.NoError(t, LoadConfigFile(path, &opts))

	require.Len(t, opts.Rules, 2)
	assert.Equal(t, Rule{Pattern: `\.go$`, Score: 10}, opts.Rules[0])
	assert.Equal(t, []string{"*.tmp"}, opts.IgnorePatterns)
	assert.Equal(t, 15, opts.MaxBoost)
	assert.Equal(t, 2*1024*1024, opts.MaxSize)
	assert.Equal(t, 6, opts.MaxWorkers)
	assert.Equal(t, 256, opts.ChannelCapacity)
}

func TestLoadConfigFilePartial(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "packflow.yaml", []byte("ignore:\n  - \"*.log\"\n"))

	opts := Options{MaxSize: 4096, MaxBoost: 7}
	require.NoError(t, LoadConfigFile(path, &opts))

	// Fields the file does not mention keep their values.
	assert.Equal(t, 4096, opts.MaxSize)
	assert.Equal(t, 7, opts.MaxBoost)
	assert.Equal(t, []string{"*.log"}, opts.IgnorePatterns)
}

func TestLoadConfigFileErrors(t *testing.T) {
	opts := Options{}
	assert.Error(t, LoadConfigFile("/nonexistent/config.yaml", &opts))

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", []byte("rules: [not a rule"))
	assert.Error(t, LoadConfigFile(bad, &opts))

	badSize := writeFile(t, dir, "badsize.yaml", []byte("max_size: lots\n"))
	assert.Error(t, LoadConfigFile(badSize, &opts))
}
