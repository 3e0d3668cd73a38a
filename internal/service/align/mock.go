package align

import (
	"context"

	"subtitle-gen-service/internal/service/subtitle"
)

// Mock implements Aligner by spreading the reference text evenly over a
// fixed duration. Useful for tests and for running without whisperx.
type Mock struct {
	// Duration is the assumed length of the audio in seconds.
	Duration float64
}

// NewMock creates a mock aligner assuming the given audio duration.
func NewMock(duration float64) *Mock {
	if duration <= 0 {
		duration = 10.0
	}
	return &Mock{Duration: duration}
}

// Name identifies the aligner.
func (m *Mock) Name() string { return "mock" }

// Align distributes one word per rune of the reference text, evenly spaced
// across the configured duration.
func (m *Mock) Align(ctx context.Context, audioPath, referenceText string) ([]subtitle.Word, error) {
	runes := []rune(referenceText)
	if len(runes) == 0 {
		return nil, nil
	}
	step := m.Duration / float64(len(runes))
	words := make([]subtitle.Word, 0, len(runes))
	for i, r := range runes {
		words = append(words, subtitle.Word{
			Text:  string(r),
			Start: float64(i) * step,
			End:   float64(i+1) * step,
		})
	}
	return words, nil
}
