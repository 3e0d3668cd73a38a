package subtitle

import (
	"sort"
	"unicode/utf8"
)

// wordRange associates a half-open rune range [start, end) of the full text
// with the index of the word that occupies it. Ranges are built by summing
// word lengths in order, so they are sorted and non-overlapping; keeping the
// word index (rather than comparing Word values) is what makes per-sentence
// deduplication well defined even when the same text repeats.
type wordRange struct {
	start, end int
	word       int
}

// AssignTimestamps maps each sentence span back onto the words whose rune
// ranges intersect it and derives the span's timing as the min start / max
// end of those words. Spans with empty trimmed text or with no overlapping
// words produce no cue; the second return value counts the non-empty
// sentences that were silently dropped.
//
// Cues are emitted in span order, not re-sorted by timestamp. The function
// never fails: out-of-order or overlapping word timings just feed the
// min/max as-is.
func AssignTimestamps(spans []SentenceSpan, words []Word, fullText string) ([]Cue, int) {
	textLen := utf8.RuneCountInString(fullText)

	ranges := make([]wordRange, 0, len(words))
	pos := 0
	for i, w := range words {
		n := utf8.RuneCountInString(w.Text)
		end := pos + n
		if end > textLen {
			// Words past the end of the text carry no position.
			end = textLen
		}
		if pos < end {
			ranges = append(ranges, wordRange{start: pos, end: end, word: i})
		}
		pos += n
	}

	var cues []Cue
	dropped := 0
	for _, span := range spans {
		if span.Text == "" {
			continue
		}

		matched := collectWords(ranges, words, span)
		if len(matched) == 0 {
			dropped++
			continue
		}

		sort.SliceStable(matched, func(a, b int) bool {
			return matched[a].Start < matched[b].Start
		})
		cues = append(cues, Cue{
			Text:  span.Text,
			Start: matched[0].Start,
			End:   matched[len(matched)-1].End,
		})
	}
	return cues, dropped
}

// collectWords gathers the distinct words whose ranges intersect the span's
// [StartChar, EndChar) window. Ranges are ordered by start, so a binary
// search locates the first candidate and the scan stops at the window edge.
func collectWords(ranges []wordRange, words []Word, span SentenceSpan) []Word {
	first := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].end > span.StartChar
	})

	var matched []Word
	seen := -1
	for i := first; i < len(ranges) && ranges[i].start < span.EndChar; i++ {
		if ranges[i].word == seen {
			continue
		}
		seen = ranges[i].word
		matched = append(matched, words[ranges[i].word])
	}
	return matched
}
