package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Run("valid durations", func(t *testing.T) {
		cases := map[string]int64{
			"00:00:00":  0,
			"00:00:01":  1,
			"00:01:30":  90,
			"01:00:00":  3600,
			"01:30:00":  5400,
			"10:59:59":  39599,
			"100:00:00": 360000,
		}
		for in, want := range cases {
			got, err := ParseClock(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("malformed durations", func(t *testing.T) {
		for _, in := range []string{"", "junk", "01:00", "01:00:00:00", "aa:bb:cc", "01:-1:00", "1h30m"} {
			_, err := ParseClock(in)
			assert.Error(t, err, in)
		}
	})
}
