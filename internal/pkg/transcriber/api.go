package transcriber

import (
	"context"

	"github.com/voxscribe/voxgo/internal/pkg/persistence"
)

// Result is a parsed transcription provider response
type Result struct {
	Text     string
	Segments []persistence.Segment
	// Duration in seconds, derived from the last segment end, 0 when unknown
	Duration int
	Model    string
	Mock     bool
}

// Transcriber converts a local audio file to text
type Transcriber interface {
	Transcribe(ctx context.Context, file string) (*Result, error)
}
