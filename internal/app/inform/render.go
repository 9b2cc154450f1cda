package inform

import (
	"strings"

	"github.com/voxscribe/voxgo/internal/pkg/persistence"
)

// Render returns the transcript as plain text. With timestamps each
// segment goes on its own line as "[start - end] text", without them
// segment texts are joined by newlines. Falls back to the raw text
// when there are no segments.
func Render(tr *persistence.Transcript, withTimestamps bool) string {
	if len(tr.Metadata.Segments) == 0 {
		return tr.Text
	}
	lines := make([]string, 0, len(tr.Metadata.Segments))
	for _, s := range tr.Metadata.Segments {
		if withTimestamps {
			lines = append(lines, "["+s.Start+" - "+s.End+"] "+s.Text)
		} else {
			lines = append(lines, s.Text)
		}
	}
	return strings.Join(lines, "\n")
}
