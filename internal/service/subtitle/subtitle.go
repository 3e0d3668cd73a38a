// Package subtitle turns timed word tokens into punctuation-boundaried
// subtitle cues and renders them as SRT text.
//
// The pipeline is a pure function over in-memory data: a full transcript
// string plus per-word timings go through SplitByPunctuation and
// AssignTimestamps to produce ordered cues. It holds no state and is safe
// to invoke concurrently across requests.
package subtitle

// Word is a single recognized word (or character unit, for CJK text) with
// start/end timestamps in seconds. Words come from an external recognition
// or alignment engine and are consumed read-only.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SentenceSpan is a contiguous rune range of the source text treated as one
// subtitle cue candidate. StartChar/EndChar form a half-open [start, end)
// range of rune indices into the full text; Text is the substring with
// surrounding whitespace trimmed. Offsets are always accounted over the
// untrimmed stream, so consecutive spans tile the text exactly.
type SentenceSpan struct {
	Text      string
	StartChar int
	EndChar   int
}

// Cue is a final timed subtitle unit ready for SRT serialization.
type Cue struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// CuesFromWords runs the full core pipeline over a word timeline: the full
// text is reconstructed by concatenating the word texts, split into sentence
// spans at punctuation, and each span is mapped back onto the words that
// produced it. Returns the cues plus the number of sentences dropped because
// no word overlapped their range.
func CuesFromWords(words []Word) ([]Cue, int) {
	var b []byte
	for _, w := range words {
		b = append(b, w.Text...)
	}
	fullText := string(b)
	spans := SplitByPunctuation(fullText)
	return AssignTimestamps(spans, words, fullText)
}
