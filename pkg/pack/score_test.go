package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMaxOfMatchingRules(t *testing.T) {
	rs := CompileRules([]Rule{
		{Pattern: `\.go$`, Score: 10},
		{Pattern: `^internal/`, Score: 5},
		{Pattern: `_test\.go$`, Score: 20},
	}, nil)

	assert.Equal(t, 10, rs.Score("pkg/server.go"))
	assert.Equal(t, 20, rs.Score("pkg/server_test.go"))
	assert.Equal(t, 10, rs.Score("internal/db.go"))
	assert.Equal(t, 5, rs.Score("internal/README.md"))
	assert.Equal(t, 0, rs.Score("docs/guide.md"))
}

func TestScoreNoRules(t *testing.T) {
	rs := CompileRules(nil, nil)
	assert.Equal(t, 0, rs.Score("anything.txt"))
}

func TestScoreInvalidPatternSkipped(t *testing.T) {
	rs := CompileRules([]Rule{
		{Pattern: `[unclosed`, Score: 100},
		{Pattern: `\.md$`, Score: 3},
	}, nil)

	// The broken rule never matches and never raises the score.
	assert.Equal(t, 3, rs.Score("notes.md"))
	assert.Equal(t, 0, rs.Score("notes.txt"))
}

func TestScoreNegative(t *testing.T) {
	rs := CompileRules([]Rule{
		{Pattern: `vendor/`, Score: -10},
		{Pattern: `vendor/important`, Score: 2},
	}, nil)

	assert.Equal(t, -10, rs.Score("vendor/lib.go"))
	assert.Equal(t, 2, rs.Score("vendor/important/lib.go"))
}

func TestScoreCaseSensitive(t *testing.T) {
	rs := CompileRules([]Rule{{Pattern: `README`, Score: 7}}, nil)

	assert.Equal(t, 7, rs.Score("README.md"))
	assert.Equal(t, 0, rs.Score("readme.md"))
}
