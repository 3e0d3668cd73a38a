package fasterwhisper

import (
	"context"
	"errors"
	"testing"
)

func TestBackend_Transcribe_ParsesHelperOutput(t *testing.T) {
	b := New(Config{Model: "large-v2", Language: "zh"})

	var gotName string
	var gotArgs []string
	b.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(`{
			"language": "zh",
			"language_probability": 0.99,
			"duration": 12.5,
			"duration_after_vad": 11.0,
			"segments": [
				{"start": 0.0, "end": 1.3, "text": "你好。世界！",
				 "words": [
					{"word": "你好", "start": 0.0, "end": 0.5, "probability": 0.9},
					{"word": "。", "start": 0.5, "end": 0.6, "probability": 0.8}
				 ]}
			]
		}`), nil
	})

	result, err := b.Transcribe(context.Background(), "/tmp/audio.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotName != "python3" {
		t.Errorf("expected python3 interpreter, got %s", gotName)
	}
	if len(gotArgs) == 0 {
		t.Fatal("expected helper args")
	}
	if result.Language != "zh" {
		t.Errorf("language = %s, want zh", result.Language)
	}
	if result.Duration != 12.5 {
		t.Errorf("duration = %v, want 12.5", result.Duration)
	}
	if len(result.Segments) != 1 || len(result.Segments[0].Words) != 2 {
		t.Fatalf("unexpected segments: %+v", result.Segments)
	}
	if result.Segments[0].Words[0].Word != "你好" {
		t.Errorf("first word = %q, want 你好", result.Segments[0].Words[0].Word)
	}
}

func TestBackend_Transcribe_ArgsIncludeTuning(t *testing.T) {
	b := New(Config{
		Model:           "small",
		Device:          "cpu",
		BeamSize:        7,
		Language:        "zh",
		InitialPrompt:   "提示",
		VADMinSilenceMS: 250,
	})

	var gotArgs []string
	b.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"segments": []}`), nil
	})

	if _, err := b.Transcribe(context.Background(), "/tmp/a.wav"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"--model":              "small",
		"--device":             "cpu",
		"--beam-size":          "7",
		"--language":           "zh",
		"--initial-prompt":     "提示",
		"--vad-min-silence-ms": "250",
	}
	for flag, value := range want {
		found := false
		for i := 0; i < len(gotArgs)-1; i++ {
			if gotArgs[i] == flag && gotArgs[i+1] == value {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s %s in args %v", flag, value, gotArgs)
		}
	}
}

func TestBackend_Transcribe_HelperError(t *testing.T) {
	b := New(Config{})
	b.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("model load failed")
	})

	if _, err := b.Transcribe(context.Background(), "/tmp/a.wav"); err == nil {
		t.Error("expected error from failing helper")
	}
}

func TestBackend_Transcribe_BadJSON(t *testing.T) {
	b := New(Config{})
	b.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("not json"), nil
	})

	if _, err := b.Transcribe(context.Background(), "/tmp/a.wav"); err == nil {
		t.Error("expected parse error")
	}
}

func TestBackend_Transcribe_EmptyPath(t *testing.T) {
	b := New(Config{})
	if _, err := b.Transcribe(context.Background(), ""); err == nil {
		t.Error("expected error for empty audio path")
	}
}

func TestBackend_Defaults(t *testing.T) {
	b := New(Config{})
	if b.cfg.Python != "python3" {
		t.Errorf("default python = %s, want python3", b.cfg.Python)
	}
	if b.cfg.Model != "large-v2" {
		t.Errorf("default model = %s, want large-v2", b.cfg.Model)
	}
	if b.cfg.BeamSize != 5 {
		t.Errorf("default beam size = %d, want 5", b.cfg.BeamSize)
	}
	if b.Name() != "fasterwhisper" {
		t.Errorf("name = %s, want fasterwhisper", b.Name())
	}
}
