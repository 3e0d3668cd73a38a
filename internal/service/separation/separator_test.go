package separation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestSeparator(t *testing.T) *Separator {
	t.Helper()
	return New(Config{TempDir: t.TempDir(), MaxAge: time.Hour})
}

func TestSeparateVocals(t *testing.T) {
	s := newTestSeparator(t)

	var gotArgs []string
	s.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		// Simulate the CLI writing its stems.
		vocals := filepath.Join(s.cfg.TempDir, "clip_(Vocals)_Kim_Vocal_2.wav")
		if err := os.WriteFile(vocals, []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
		return nil, nil
	})

	vocalsPath, cleanup, err := s.SeparateVocals(context.Background(), "/tmp/clip.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(vocalsPath, "(Vocals)") {
		t.Errorf("unexpected vocals path: %s", vocalsPath)
	}

	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"/tmp/clip.mp3", "--model_filename Kim_Vocal_2.onnx", "--output_format WAV"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}

	cleanup()
	if _, err := os.Stat(vocalsPath); !os.IsNotExist(err) {
		t.Error("expected cleanup to remove the vocals file")
	}
}

func TestSeparateVocals_EmptyOutput(t *testing.T) {
	s := newTestSeparator(t)
	s.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		vocals := filepath.Join(s.cfg.TempDir, "clip_(Vocals).wav")
		return nil, os.WriteFile(vocals, nil, 0o644)
	})

	if _, _, err := s.SeparateVocals(context.Background(), "/tmp/clip.mp3"); err == nil {
		t.Error("expected error for empty output file")
	}
}

func TestSeparateVocals_NoOutput(t *testing.T) {
	s := newTestSeparator(t)
	s.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	if _, _, err := s.SeparateVocals(context.Background(), "/tmp/clip.mp3"); err == nil {
		t.Error("expected error when no vocals file is produced")
	}
}

func TestSweepTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{TempDir: dir, MaxAge: time.Hour})

	stale := filepath.Join(dir, "old_(Vocals).wav")
	fresh := filepath.Join(dir, "new_(Vocals).wav")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	if removed := s.SweepTempFiles(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale file to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("expected fresh file to survive the sweep")
	}
}

func TestStatus(t *testing.T) {
	s := newTestSeparator(t)
	s.WithCommandOutput(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	status := s.Status()
	if status["model"] != "Kim_Vocal_2.onnx" {
		t.Errorf("unexpected model in status: %v", status["model"])
	}
	if status["available"] != true {
		t.Error("expected available=true with injected runner")
	}
}
