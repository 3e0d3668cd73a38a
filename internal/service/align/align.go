// Package align maps a known reference text onto an audio file, producing
// word-level timestamps for subtitle generation when the transcript is
// already known.
package align

import (
	"context"

	"subtitle-gen-service/internal/service/subtitle"
)

// Aligner produces per-word timings for a reference text spoken in an
// audio file.
type Aligner interface {
	Align(ctx context.Context, audioPath, referenceText string) ([]subtitle.Word, error)
	Name() string
}
