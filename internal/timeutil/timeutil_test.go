package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		59:   "00:59",
		60:   "01:00",
		1500: "25:00",
		3600: "60:00",
		-5:   "00:00",
	}

	for in, want := range cases {
		assert.Equal(t, want, FormatClock(in), "FormatClock(%d)", in)
	}
}

func TestFromStr(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	got, err := FromStr("2 days ago", now)
	require.NoError(t, err)

	assert.Equal(t, 8, got.Day())

	_, err = FromStr("   ", now)
	assert.Error(t, err)
}
