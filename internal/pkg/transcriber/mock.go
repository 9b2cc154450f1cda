package transcriber

import (
	"context"

	"github.com/voxscribe/voxgo/internal/pkg/audio"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"
)

// Mock returns a fixed transcript. It is used when no provider key is
// configured so the rest of the pipeline stays testable.
type Mock struct {
}

// NewMock creates Mock instance
func NewMock() *Mock {
	return &Mock{}
}

// Transcribe returns the fixed sample transcript
func (m *Mock) Transcribe(ctx context.Context, file string) (*Result, error) {
	segments := []persistence.Segment{
		{Start: "00:00", End: "00:05", Text: "This is a simulated transcript because no provider key was configured."},
		{Start: "00:05", End: "00:10", Text: "The system is working correctly."},
		{Start: "00:10", End: "00:15", Text: "This is the last segment of the mock transcription to demonstrate timestamps."},
	}
	return &Result{Text: JoinSegments(segments), Segments: segments,
		Duration: audio.Duration(segments), Model: "mock", Mock: true}, nil
}
