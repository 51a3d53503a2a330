package cmd

import (
	"testing"

	"packflow/pkg/pack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRuleFlag(t *testing.T) {
	rule, err := parseRuleFlag(`\.go$=10`)
	require.NoError(t, err)
	assert.Equal(t, pack.Rule{Pattern: `\.go$`, Score: 10}, rule)

	rule, err = parseRuleFlag(`vendor/=-5`)
	require.NoError(t, err)
	assert.Equal(t, pack.Rule{Pattern: `vendor/`, Score: -5}, rule)

	// The split happens at the last '=' so patterns may contain one.
	rule, err = parseRuleFlag(`foo=bar=3`)
	require.NoError(t, err)
	assert.Equal(t, pack.Rule{Pattern: `foo=bar`, Score: 3}, rule)
}

func TestParseRuleFlagInvalid(t *testing.T) {
	for _, spec := range []string{"", "noscore", "=5", "pattern=", "p=x"} {
		_, err := parseRuleFlag(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}
