// Package stt defines the interface for speech-to-text backends.
package stt

import "context"

// WordStamp is a word-level timestamp produced by a recognizer.
type WordStamp struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// Segment is one recognized utterance with optional word-level detail.
type Segment struct {
	Start float64     `json:"start"`
	End   float64     `json:"end"`
	Text  string      `json:"text"`
	Words []WordStamp `json:"words"`
}

// Result is a complete batch transcription of one audio file.
type Result struct {
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
	Duration            float64   `json:"duration"`
	DurationAfterVAD    float64   `json:"duration_after_vad"`
	Segments            []Segment `json:"segments"`
}

// Recognizer transcribes a whole audio file. Implementations delegate the
// actual inference to external engines (subprocess helpers or cloud APIs)
// and must honor ctx cancellation.
type Recognizer interface {
	// Transcribe runs speech recognition over the file at audioPath.
	Transcribe(ctx context.Context, audioPath string) (Result, error)

	// Name identifies the backend for logging and metrics.
	Name() string
}
