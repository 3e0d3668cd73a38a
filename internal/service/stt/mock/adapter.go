// Package mock provides a deterministic recognizer for tests and for
// running the service without any speech engine installed.
package mock

import (
	"context"

	"subtitle-gen-service/internal/service/stt"
)

// Adapter implements stt.Recognizer with a canned result. The result
// carries word-level timestamps so the whole cue pipeline is exercised.
type Adapter struct {
	result stt.Result
	err    error
}

// New creates a mock recognizer returning the default canned result.
func New() *Adapter {
	return &Adapter{result: DefaultResult()}
}

// NewWithResult creates a mock recognizer returning a fixed result or error.
func NewWithResult(result stt.Result, err error) *Adapter {
	return &Adapter{result: result, err: err}
}

// Name identifies the backend.
func (a *Adapter) Name() string { return "mock" }

// Transcribe returns the canned result regardless of the audio file.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	if a.err != nil {
		return stt.Result{}, a.err
	}
	return a.result, nil
}

// DefaultResult is a small two-sentence Chinese transcript with word-level
// timing, matching what a whisper run over a short clip would produce.
func DefaultResult() stt.Result {
	return stt.Result{
		Language:            "zh",
		LanguageProbability: 0.98,
		Duration:            1.3,
		DurationAfterVAD:    1.3,
		Segments: []stt.Segment{
			{
				Start: 0.0,
				End:   1.3,
				Text:  "你好。世界！",
				Words: []stt.WordStamp{
					{Word: "你好", Start: 0.0, End: 0.5, Probability: 0.95},
					{Word: "。", Start: 0.5, End: 0.6, Probability: 0.90},
					{Word: "世界", Start: 0.6, End: 1.2, Probability: 0.97},
					{Word: "！", Start: 1.2, End: 1.3, Probability: 0.91},
				},
			},
		},
	}
}
