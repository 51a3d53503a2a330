package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1024", 1024},
		{"10MB", 10 * 1024 * 1024},
		{"512K", 512 * 1024},
		{"512KB", 512 * 1024},
		{"1g", 1024 * 1024 * 1024},
		{" 2 M ", 2 * 1024 * 1024},
	}

	for _, tc := range cases {
		got, err := ParseSizeLimit(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseSizeLimitInvalid(t *testing.T) {
	for _, in := range []string{"", "MB", "-5K", "0", "ten megabytes"} {
		_, err := ParseSizeLimit(in)
		assert.Error(t, err, "input %q", in)
	}
}
