package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockAndMinutesRoundTrip(t *testing.T) {
	cases := []struct {
		min  int
		lit  string
		back string
	}{
		{0, "00:00:00", "00:00"},
		{9*60 + 5, "09:05:00", "09:05"},
		{18*60 + 30, "18:30:00", "18:30"},
		{23*60 + 59, "23:59:00", "23:59"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.lit, clock(tc.min))
		got, err := minutes(tc.back)
		require.NoError(t, err)
		assert.Equal(t, tc.min, got)
	}
}

func TestMinutesMalformed(t *testing.T) {
	for _, s := range []string{"", "18", "18-30", "xx:30", "18:yy"} {
		_, err := minutes(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "VIP", codePrefix("VIP"))
	assert.Equal(t, "TER", codePrefix("Terrace"))
	assert.Equal(t, "WIN", codePrefix("window seat"))
	// Short names keep what they have; non-letters are dropped.
	assert.Equal(t, "GA", codePrefix("G-A 2"))
	assert.Equal(t, "TBL", codePrefix("42"))
	assert.Equal(t, "TBL", codePrefix(""))
}
