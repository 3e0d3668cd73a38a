package subtitle

import (
	"strings"
	"testing"
)

func TestSplitByPunctuation_Basic(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []SentenceSpan
	}{
		{
			name: "cjk sentences",
			text: "你好。世界！",
			want: []SentenceSpan{
				{Text: "你好。", StartChar: 0, EndChar: 3},
				{Text: "世界！", StartChar: 3, EndChar: 6},
			},
		},
		{
			name: "ascii sentences",
			text: "hello, world.",
			want: []SentenceSpan{
				{Text: "hello,", StartChar: 0, EndChar: 6},
				{Text: "world.", StartChar: 6, EndChar: 13},
			},
		},
		{
			name: "trailing text without punctuation",
			text: "第一句。然后没有结尾",
			want: []SentenceSpan{
				{Text: "第一句。", StartChar: 0, EndChar: 4},
				{Text: "然后没有结尾", StartChar: 4, EndChar: 10},
			},
		},
		{
			name: "no punctuation at all",
			text: "没有任何标点",
			want: []SentenceSpan{
				{Text: "没有任何标点", StartChar: 0, EndChar: 6},
			},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitByPunctuation(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d spans, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitByPunctuation_ConsecutivePunctuation(t *testing.T) {
	// Each punctuation mark closes its own span; the second span holds just
	// the extra mark and still accounts for its character range.
	spans := SplitByPunctuation("好。。世界")

	want := []SentenceSpan{
		{Text: "好。", StartChar: 0, EndChar: 2},
		{Text: "。", StartChar: 2, EndChar: 3},
		{Text: "世界", StartChar: 3, EndChar: 5},
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(spans), len(want), spans)
	}
	for i := range spans {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestSplitByPunctuation_EmptyTrimmedSpanStillEmitted(t *testing.T) {
	// A span that is whitespace between two marks trims to "" but must keep
	// its offsets so later spans stay aligned.
	spans := SplitByPunctuation("好。 。世界")

	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3: %+v", len(spans), spans)
	}
	if spans[1].Text != "。" || spans[1].StartChar != 2 || spans[1].EndChar != 4 {
		t.Errorf("middle span = %+v, want {。 2 4}", spans[1])
	}
	if spans[2].StartChar != 4 {
		t.Errorf("last span starts at %d, want 4", spans[2].StartChar)
	}
}

// Partition coverage: the untrimmed ranges of all spans reconstruct the
// input exactly, and offsets are contiguous.
func TestSplitByPunctuation_PartitionProperties(t *testing.T) {
	inputs := []string{
		"你好。世界！",
		"a,b,c",
		"。。。",
		"  spaced , out .  ",
		"一句话没有结尾",
		"Mixed 中文 and english. 对吧？yes",
	}

	for _, text := range inputs {
		spans := SplitByPunctuation(text)
		runes := []rune(text)

		var rebuilt strings.Builder
		prevEnd := 0
		for i, span := range spans {
			if span.StartChar != prevEnd {
				t.Errorf("%q: span %d starts at %d, want %d", text, i, span.StartChar, prevEnd)
			}
			rebuilt.WriteString(string(runes[span.StartChar:span.EndChar]))
			prevEnd = span.EndChar
		}
		if prevEnd != len(runes) {
			t.Errorf("%q: spans end at %d, want %d", text, prevEnd, len(runes))
		}
		if rebuilt.String() != text {
			t.Errorf("%q: reconstructed %q", text, rebuilt.String())
		}
	}
}
