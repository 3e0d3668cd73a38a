package transcription

import (
	"context"
	"errors"
	"strings"
	"testing"

	"subtitle-gen-service/internal/events"
	"subtitle-gen-service/internal/service/align"
	"subtitle-gen-service/internal/service/stt"
	"subtitle-gen-service/internal/service/stt/mock"
)

type fakeSeparator struct {
	available  bool
	vocalsPath string
	err        error
	cleaned    bool
}

func (f *fakeSeparator) Available() bool { return f.available }

func (f *fakeSeparator) SeparateVocals(ctx context.Context, audioPath string) (string, func(), error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.vocalsPath, func() { f.cleaned = true }, nil
}

func TestGenerate(t *testing.T) {
	svc := New(mock.New(), nil, nil, events.New(nil))

	result, err := svc.Generate(context.Background(), Request{
		AudioPath: "clip.wav",
		FileName:  "clip.wav",
		RequestID: "req-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Language != "zh" {
		t.Errorf("language = %s, want zh", result.Language)
	}
	if result.VocalSeparationUsed {
		t.Error("expected no vocal separation")
	}
	if result.DroppedSentences != 0 {
		t.Errorf("dropped = %d, want 0", result.DroppedSentences)
	}
	if !strings.Contains(result.SRTContent, "你好。") || !strings.Contains(result.SRTContent, "世界！") {
		t.Errorf("unexpected srt content:\n%s", result.SRTContent)
	}
	if !strings.Contains(result.SRTContent, "00:00:00,000 --> 00:00:00,600") {
		t.Errorf("unexpected cue timing:\n%s", result.SRTContent)
	}
	if result.ProcessingInfo == nil || result.ProcessingInfo.Mode != "detailed" {
		t.Errorf("unexpected processing info: %+v", result.ProcessingInfo)
	}
}

func TestGenerate_TranscribeError(t *testing.T) {
	wantErr := errors.New("engine down")
	svc := New(mock.NewWithResult(stt.Result{}, wantErr), nil, nil, events.New(nil))

	if _, err := svc.Generate(context.Background(), Request{AudioPath: "clip.wav"}); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped engine error, got %v", err)
	}
}

func TestGenerate_WithSeparation(t *testing.T) {
	sep := &fakeSeparator{available: true, vocalsPath: "vocals.wav"}
	svc := New(mock.New(), nil, sep, events.New(nil))

	result, err := svc.Generate(context.Background(), Request{
		AudioPath:        "clip.wav",
		EnableSeparation: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.VocalSeparationUsed {
		t.Error("expected vocal separation to be used")
	}
	if !sep.cleaned {
		t.Error("expected stem cleanup after generation")
	}
}

func TestGenerate_SeparationFallback(t *testing.T) {
	sep := &fakeSeparator{available: true, err: errors.New("no gpu")}
	svc := New(mock.New(), nil, sep, events.New(nil))

	result, err := svc.Generate(context.Background(), Request{
		AudioPath:        "clip.wav",
		EnableSeparation: true,
	})
	if err != nil {
		t.Fatalf("expected fallback to original audio, got error: %v", err)
	}
	if result.VocalSeparationUsed {
		t.Error("expected fallback to report separation unused")
	}
	// processing_info keeps what the request asked for, even after fallback.
	if result.ProcessingInfo == nil || !result.ProcessingInfo.VocalSeparationEnabled {
		t.Error("expected processing info to report separation as requested")
	}
}

func TestGenerate_SegmentFallback(t *testing.T) {
	// No word-level timing: one cue per segment.
	result := stt.Result{
		Language: "zh",
		Duration: 3.0,
		Segments: []stt.Segment{
			{Start: 0.0, End: 1.5, Text: " 你好。"},
			{Start: 1.5, End: 3.0, Text: "世界！"},
		},
	}
	svc := New(mock.NewWithResult(result, nil), nil, nil, events.New(nil))

	detailed, err := svc.Generate(context.Background(), Request{AudioPath: "clip.wav"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(detailed.SRTContent, "1\n00:00:00,000 --> 00:00:01,500\n你好。") {
		t.Errorf("unexpected srt content:\n%s", detailed.SRTContent)
	}
	if !strings.Contains(detailed.SRTContent, "2\n00:00:01,500 --> 00:00:03,000\n世界！") {
		t.Errorf("unexpected srt content:\n%s", detailed.SRTContent)
	}
}

func TestAlign(t *testing.T) {
	svc := New(mock.New(), align.NewMock(2.0), nil, events.New(nil))

	result, err := svc.Align(context.Background(), AlignRequest{
		AudioPath:     "clip.wav",
		FileName:      "clip.wav",
		RequestID:     "req-2",
		ReferenceText: "你好。世界！",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(result.Cues))
	}
	if result.Cues[0].Text != "你好。" || result.Cues[1].Text != "世界！" {
		t.Errorf("unexpected cue texts: %+v", result.Cues)
	}
	if result.DroppedSentences != 0 {
		t.Errorf("dropped = %d, want 0", result.DroppedSentences)
	}
	if !strings.Contains(result.SRTContent, " --> ") {
		t.Errorf("unexpected srt content:\n%s", result.SRTContent)
	}
	if result.ProcessingInfo == nil || result.ProcessingInfo.Mode != "align" {
		t.Errorf("unexpected processing info: %+v", result.ProcessingInfo)
	}
}

func TestAlign_NoAligner(t *testing.T) {
	svc := New(mock.New(), nil, nil, events.New(nil))

	if _, err := svc.Align(context.Background(), AlignRequest{ReferenceText: "text"}); err == nil {
		t.Error("expected error without an aligner")
	}
}
