package subtitle

import "strings"

// boundaryRunes are the punctuation marks that close a sentence span. Both
// CJK and ASCII terminators/separators count; anything else accumulates.
var boundaryRunes = map[rune]struct{}{
	'。': {}, '！': {}, '？': {}, '；': {}, '，': {}, '、': {},
	'.': {}, '!': {}, '?': {}, ';': {}, ',': {},
}

func isBoundary(r rune) bool {
	_, ok := boundaryRunes[r]
	return ok
}

// SplitByPunctuation partitions text into sentence spans. A span closes
// immediately after any boundary rune, and the final rune always forces a
// flush so trailing text without terminal punctuation is never lost.
//
// The returned spans tile the input: span[i].EndChar == span[i+1].StartChar,
// and together they cover every rune exactly once. Span text is trimmed, but
// the offsets refer to the untrimmed positions; spans whose trimmed text is
// empty are still emitted so that callers relying on the partition (and the
// offsets of later spans) see the authoritative accounting. Total function:
// no input is rejected, the empty string yields no spans.
func SplitByPunctuation(text string) []SentenceSpan {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var spans []SentenceSpan
	start := 0
	for i, r := range runes {
		if !isBoundary(r) && i != len(runes)-1 {
			continue
		}
		spans = append(spans, SentenceSpan{
			Text:      strings.TrimSpace(string(runes[start : i+1])),
			StartChar: start,
			EndChar:   i + 1,
		})
		start = i + 1
	}
	return spans
}
