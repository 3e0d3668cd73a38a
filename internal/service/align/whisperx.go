package align

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subtitle-gen-service/internal/service/subtitle"
)

//go:embed assets/align.py
var helperScript []byte

// WhisperXConfig captures runtime settings for the alignment helper.
type WhisperXConfig struct {
	// Language selects the alignment model language code.
	Language string
	// Device selects inference hardware: "cpu" or "cuda".
	Device string
	// Python is the interpreter used to run the helper.
	Python string
}

// WhisperX implements Aligner via an embedded whisperx helper script.
type WhisperX struct {
	cfg           WhisperXConfig
	commandOutput func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewWhisperX creates a whisperx-backed aligner.
func NewWhisperX(cfg WhisperXConfig) *WhisperX {
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	if cfg.Device == "" {
		cfg.Device = "cpu"
	}
	return &WhisperX{cfg: cfg}
}

// WithCommandOutput sets a custom command runner (for testing).
func (w *WhisperX) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	w.commandOutput = runner
}

// Name identifies the aligner.
func (w *WhisperX) Name() string { return "whisperx" }

type alignOutput struct {
	Duration float64         `json:"duration"`
	Words    []subtitle.Word `json:"words"`
}

// Align writes the embedded helper to a temp file, runs it against the audio
// with the reference text and parses the word timings it prints.
func (w *WhisperX) Align(ctx context.Context, audioPath, referenceText string) ([]subtitle.Word, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("align: audio path required")
	}
	if strings.TrimSpace(referenceText) == "" {
		return nil, fmt.Errorf("align: reference text required")
	}

	scriptPath := filepath.Join(os.TempDir(), "subtitle_gen_align.py")
	if err := os.WriteFile(scriptPath, helperScript, 0o755); err != nil {
		return nil, fmt.Errorf("align: write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--text", referenceText,
		"--language", w.cfg.Language,
		"--device", w.cfg.Device,
	}

	out, err := w.run(ctx, w.cfg.Python, args...)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}

	var parsed alignOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("align: parse helper output: %w", err)
	}
	return parsed.Words, nil
}

func (w *WhisperX) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if w.commandOutput != nil {
		return w.commandOutput(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("helper failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("run helper: %w", err)
	}
	return out, nil
}
