package transcriber

import (
	"encoding/json"
	"strings"

	"github.com/voxscribe/voxgo/internal/pkg/persistence"
)

type segmentsJSON struct {
	Segments []persistence.Segment `json:"segments"`
}

// ParseResponse recovers segments from a raw provider response.
// Providers tend to wrap the promised JSON object into markdown fences or
// surround it with prose, so the parse is layered: strict JSON, then
// fence-stripped, then the first balanced {...} span. When no JSON object
// can be recovered the whole response is returned as unsegmented plain text.
func ParseResponse(raw string) ([]persistence.Segment, string) {
	for _, c := range []string{raw, stripFences(raw), extractObject(raw)} {
		if segs, ok := tryParse(c); ok {
			return segs, JoinSegments(segs)
		}
	}
	return nil, strings.TrimSpace(raw)
}

// JoinSegments builds the plain text representation
func JoinSegments(segments []persistence.Segment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n")
}

func tryParse(s string) ([]persistence.Segment, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var res segmentsJSON
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, false
	}
	if len(res.Segments) == 0 {
		return nil, false
	}
	return res.Segments, true
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractObject returns the first balanced {...} span or an empty string
func extractObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth, inString, escaped := 0, false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
