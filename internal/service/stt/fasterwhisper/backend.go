// Package fasterwhisper runs speech recognition through a faster-whisper
// Python helper subprocess.
package fasterwhisper

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"subtitle-gen-service/internal/service/stt"
)

//go:embed assets/transcribe.py
var helperScript []byte

// Config captures runtime settings for the helper invocation.
type Config struct {
	// Model is the faster-whisper model name or path (e.g. "large-v2").
	Model string
	// Device selects inference hardware: "auto", "cpu" or "cuda".
	Device string
	// BeamSize is the decoding beam width.
	BeamSize int
	// Language forces the transcription language ("" = autodetect).
	Language string
	// InitialPrompt biases decoding, e.g. toward simplified Chinese.
	InitialPrompt string
	// VADMinSilenceMS is the minimum silence for the VAD filter.
	VADMinSilenceMS int
	// Python is the interpreter used to run the helper.
	Python string
}

// Backend implements stt.Recognizer via the embedded helper script.
type Backend struct {
	cfg           Config
	commandOutput func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates a faster-whisper backend.
func New(cfg Config) *Backend {
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.Model == "" {
		cfg.Model = "large-v2"
	}
	if cfg.BeamSize <= 0 {
		cfg.BeamSize = 5
	}
	return &Backend{cfg: cfg}
}

// WithCommandOutput sets a custom command runner (for testing).
func (b *Backend) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	b.commandOutput = runner
}

// Name identifies the backend.
func (b *Backend) Name() string { return "fasterwhisper" }

// Transcribe writes the embedded helper to a temp file, runs it against the
// audio file and parses the JSON it prints.
func (b *Backend) Transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	var result stt.Result

	if audioPath == "" {
		return result, fmt.Errorf("fasterwhisper: audio path required")
	}

	scriptPath := filepath.Join(os.TempDir(), "subtitle_gen_transcribe.py")
	if err := os.WriteFile(scriptPath, helperScript, 0o755); err != nil {
		return result, fmt.Errorf("fasterwhisper: write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", b.cfg.Model,
		"--device", b.deviceArg(),
		"--beam-size", strconv.Itoa(b.cfg.BeamSize),
		"--vad-min-silence-ms", strconv.Itoa(b.vadMinSilence()),
	}
	if b.cfg.Language != "" {
		args = append(args, "--language", b.cfg.Language)
	}
	if b.cfg.InitialPrompt != "" {
		args = append(args, "--initial-prompt", b.cfg.InitialPrompt)
	}

	out, err := b.run(ctx, b.cfg.Python, args...)
	if err != nil {
		return result, fmt.Errorf("fasterwhisper: %w", err)
	}

	if err := json.Unmarshal(out, &result); err != nil {
		return result, fmt.Errorf("fasterwhisper: parse helper output: %w", err)
	}
	return result, nil
}

func (b *Backend) deviceArg() string {
	switch b.cfg.Device {
	case "cpu", "cuda":
		return b.cfg.Device
	default:
		return "auto"
	}
}

func (b *Backend) vadMinSilence() int {
	if b.cfg.VADMinSilenceMS <= 0 {
		return 500
	}
	return b.cfg.VADMinSilenceMS
}

func (b *Backend) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if b.commandOutput != nil {
		return b.commandOutput(ctx, name, args...)
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
