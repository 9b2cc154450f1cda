package audio

import (
	"testing"

	"github.com/voxscribe/voxgo/internal/pkg/persistence"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in  string
		res int
	}{
		{"00:00", 0},
		{"01:05", 65},
		{"10:00", 600},
		{"01:02:03", 3723},
		{"00:10", 10},
		{" 00:15 ", 15},
	}
	for _, tc := range tests {
		res, err := ParseTimestamp(tc.in)
		assert.Nil(t, err, tc.in)
		assert.Equal(t, tc.res, res, tc.in)
	}
}

func TestParseTimestamp_Fails(t *testing.T) {
	for _, in := range []string{"", "olia", "10", "aa:bb", "1:2:3:4", "-1:10"} {
		res, err := ParseTimestamp(in)
		assert.NotNil(t, err, in)
		assert.Equal(t, 0, res, in)
	}
}

func TestDuration(t *testing.T) {
	segs := []persistence.Segment{{Start: "00:00", End: "00:05"}, {Start: "00:10", End: "00:15"}}
	assert.Equal(t, 15, Duration(segs))
}

func TestDuration_NoFailure(t *testing.T) {
	assert.Equal(t, 0, Duration(nil))
	assert.Equal(t, 0, Duration([]persistence.Segment{}))
	assert.Equal(t, 0, Duration([]persistence.Segment{{Start: "00:00", End: "olia"}}))
}
