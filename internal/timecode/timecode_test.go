package timecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	ms, err := Encode("2", "17", "180")
	require.NoError(t, err)
	assert.Equal(t, 2*60000+17*1000+180, ms)
}

func TestEncode_EmptyComponentsAreZero(t *testing.T) {
	ms, err := Encode("", "17", "")
	require.NoError(t, err)
	assert.Equal(t, 17000, ms)

	ms, err = Encode("", "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, ms)
}

func TestEncode_RejectsNonNumeric(t *testing.T) {
	_, err := Encode("2", "abc", "180")
	assert.Error(t, err)
}

func TestDecode_RoundTrip(t *testing.T) {
	cases := []struct {
		minutes, seconds, millis int
	}{
		{2, 17, 180},
		{0, 0, 0},
		{0, 59, 999},
		{75, 1, 1},
	}

	for _, tc := range cases {
		encoded := tc.minutes*60000 + tc.seconds*1000 + tc.millis
		m, s, ms := Decode(encoded)
		assert.Equal(t, tc.minutes, m)
		assert.Equal(t, tc.seconds, s)
		assert.Equal(t, tc.millis, ms)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2:17.180", Format(137180))
	assert.Equal(t, "0:00.000", Format(0))
	assert.Equal(t, "0:07.005", Format(7005))
}

func TestParse(t *testing.T) {
	msStr, secStr, minStr := Parse("0:17.180")
	assert.Equal(t, "180", msStr)
	assert.Equal(t, "17", secStr)
	assert.Equal(t, "0", minStr)
}

func TestParse_NoMinutes(t *testing.T) {
	msStr, secStr, minStr := Parse("17.180")
	assert.Equal(t, "180", msStr)
	assert.Equal(t, "17", secStr)
	assert.Equal(t, "0", minStr)
}

func TestParse_NoFraction(t *testing.T) {
	msStr, secStr, minStr := Parse("1:42")
	assert.Equal(t, "0", msStr)
	assert.Equal(t, "42", secStr)
	assert.Equal(t, "1", minStr)
}

func TestPadMilliseconds(t *testing.T) {
	assert.Equal(t, "180", PadMilliseconds("18"))
	assert.Equal(t, "500", PadMilliseconds("5"))
	assert.Equal(t, "123", PadMilliseconds("123"))
	assert.Equal(t, "000", PadMilliseconds(""))
}

func TestParseToMillis(t *testing.T) {
	ms, err := ParseToMillis("2:17.180")
	require.NoError(t, err)
	assert.Equal(t, 137180, ms)
}
