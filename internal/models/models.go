// Package models defines the JSON payloads of the HTTP API and the Kafka
// event schemas.
package models

// WordData is a word-level timestamp entry inside a segment.
type WordData struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// SegmentData is one recognized segment with its word-level detail.
type SegmentData struct {
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Text  string     `json:"text"`
	Words []WordData `json:"words"`
}

// ProcessingInfo summarizes how a request was handled.
// VocalSeparationEnabled reflects what the request asked for; the top-level
// result carries whether separation actually ran.
type ProcessingInfo struct {
	ProcessingTimeSeconds  float64 `json:"processing_time_seconds"`
	Mode                   string  `json:"mode"`
	VocalSeparationEnabled bool    `json:"vocal_separation_enabled"`
	FileName               string  `json:"file_name"`
	FileSize               string  `json:"file_size"`
}

// DetailedResult is the response body of the generate endpoint.
type DetailedResult struct {
	Segments            []SegmentData   `json:"segments"`
	Language            string          `json:"language,omitempty"`
	LanguageProbability float64         `json:"language_probability,omitempty"`
	Duration            float64         `json:"duration,omitempty"`
	DurationAfterVAD    float64         `json:"duration_after_vad,omitempty"`
	SRTContent          string          `json:"srt_content"`
	VocalSeparationUsed bool            `json:"vocal_separation_used"`
	DroppedSentences    int             `json:"dropped_sentences"`
	ProcessingInfo      *ProcessingInfo `json:"processing_info,omitempty"`
}

// CueData is one subtitle cue in the align response.
type CueData struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// AlignResult is the response body of the align endpoint.
type AlignResult struct {
	Cues             []CueData       `json:"cues"`
	SRTContent       string          `json:"srt_content"`
	DroppedSentences int             `json:"dropped_sentences"`
	ProcessingInfo   *ProcessingInfo `json:"processing_info,omitempty"`
}

// StatusResponse is returned by the service root endpoint.
type StatusResponse struct {
	Service   string   `json:"service"`
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Features  []string `json:"features"`
	Timestamp string   `json:"timestamp"`
}

// ErrorResponse carries a request failure detail.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// SubtitleCompleted is the Kafka event for a successful request.
type SubtitleCompleted struct {
	EventType             string  `json:"eventType"`
	RequestID             string  `json:"requestId"`
	FileName              string  `json:"fileName"`
	Language              string  `json:"language"`
	DurationSeconds       float64 `json:"durationSeconds"`
	CueCount              int     `json:"cueCount"`
	DroppedSentences      int     `json:"droppedSentences"`
	VocalSeparationUsed   bool    `json:"vocalSeparationUsed"`
	ProcessingTimeSeconds float64 `json:"processingTimeSeconds"`
	Timestamp             int64   `json:"timestamp"`
}

// SubtitleFailed is the Kafka event for a failed request.
type SubtitleFailed struct {
	EventType string `json:"eventType"`
	RequestID string `json:"requestId"`
	FileName  string `json:"fileName"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}
