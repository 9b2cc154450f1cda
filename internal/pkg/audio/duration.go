package audio

import (
	"strconv"
	"strings"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"

	"github.com/pkg/errors"
)

// ParseTimestamp converts MM:SS or HH:MM:SS string to seconds
func ParseTimestamp(ts string) (int, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errors.Errorf("wrong timestamp '%s'", ts)
	}
	res := 0
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, errors.Wrapf(err, "wrong timestamp '%s'", ts)
		}
		if v < 0 {
			return 0, errors.Errorf("wrong timestamp '%s'", ts)
		}
		res = res*60 + v
	}
	return res, nil
}

// Duration derives audio length in seconds from the last segment end.
// Returns 0 on empty segments or an unparsable timestamp - never fails.
func Duration(segments []persistence.Segment) int {
	if len(segments) == 0 {
		return 0
	}
	res, err := ParseTimestamp(segments[len(segments)-1].End)
	if err != nil {
		cmdapp.Log.Warn("Can't get duration. ", err)
		return 0
	}
	return res
}
