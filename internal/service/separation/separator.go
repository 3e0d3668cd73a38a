// Package separation isolates vocals from an audio file by shelling out to
// the audio-separator CLI. Separation is best effort: callers fall back to
// the original audio when it fails.
package separation

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"subtitle-gen-service/internal/observability/logging"
)

// Config holds separator settings.
type Config struct {
	// Binary is the audio-separator executable.
	Binary string
	// Model is the separation model filename, e.g. "Kim_Vocal_2.onnx".
	Model string
	// ModelsDir is where model files are downloaded and cached.
	ModelsDir string
	// TempDir receives separated output files.
	TempDir string
	// MaxAge is how long stale output files are kept before SweepTempFiles
	// removes them.
	MaxAge time.Duration
}

// Separator runs vocal separation as a subprocess.
type Separator struct {
	cfg    Config
	log    zerolog.Logger
	runCmd func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates a separator with defaults filled in.
func New(cfg Config) *Separator {
	if cfg.Binary == "" {
		cfg.Binary = "audio-separator"
	}
	if cfg.Model == "" {
		cfg.Model = "Kim_Vocal_2.onnx"
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = "models"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = "temp_separation"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 2 * time.Hour
	}
	return &Separator{cfg: cfg, log: logging.WithComponent("separation")}
}

// WithCommandOutput sets a custom command runner (for testing).
func (s *Separator) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.runCmd = runner
}

// Available reports whether the separator binary can be found on PATH.
func (s *Separator) Available() bool {
	if s.runCmd != nil {
		return true
	}
	_, err := exec.LookPath(s.cfg.Binary)
	return err == nil
}

// SeparateVocals extracts the vocal stem from the audio file. It returns
// the path to the vocals file and a cleanup function removing it. The
// cleanup function is non-nil whenever err is nil.
func (s *Separator) SeparateVocals(ctx context.Context, audioPath string) (string, func(), error) {
	if audioPath == "" {
		return "", nil, fmt.Errorf("separation: audio path required")
	}
	if err := os.MkdirAll(s.cfg.TempDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("separation: create temp dir: %w", err)
	}

	start := time.Now()
	args := []string{
		audioPath,
		"--model_filename", s.cfg.Model,
		"--model_file_dir", s.cfg.ModelsDir,
		"--output_dir", s.cfg.TempDir,
		"--output_format", "WAV",
	}
	if _, err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return "", nil, fmt.Errorf("separation: %w", err)
	}

	vocalsPath, err := s.findVocals(audioPath)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().
		Str("vocalsPath", vocalsPath).
		Dur("elapsed", time.Since(start)).
		Msg("vocal separation complete")

	cleanup := func() {
		if err := os.Remove(vocalsPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", vocalsPath).Msg("failed to remove separated file")
		}
	}
	return vocalsPath, cleanup, nil
}

// findVocals locates the vocal stem written for the given input and checks
// it is a non-empty file.
func (s *Separator) findVocals(audioPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	entries, err := os.ReadDir(s.cfg.TempDir)
	if err != nil {
		return "", fmt.Errorf("separation: read temp dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.Contains(name, base) || !strings.Contains(name, "(Vocals)") {
			continue
		}
		path := filepath.Join(s.cfg.TempDir, name)
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("separation: stat output: %w", err)
		}
		if info.Size() == 0 {
			return "", fmt.Errorf("separation: output file %s is empty", name)
		}
		return path, nil
	}
	return "", fmt.Errorf("separation: no vocals output found for %s", base)
}

// SweepTempFiles removes output files older than MaxAge and returns how
// many were deleted.
func (s *Separator) SweepTempFiles() int {
	entries, err := os.ReadDir(s.cfg.TempDir)
	if err != nil {
		return 0
	}
	removed := 0
	cutoff := time.Now().Add(-s.cfg.MaxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.cfg.TempDir, entry.Name())
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("swept stale separation files")
	}
	return removed
}

// Status describes the separator for the service status endpoint.
func (s *Separator) Status() map[string]any {
	return map[string]any{
		"available":  s.Available(),
		"model":      s.cfg.Model,
		"models_dir": s.cfg.ModelsDir,
		"temp_dir":   s.cfg.TempDir,
	}
}

func (s *Separator) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.runCmd != nil {
		return s.runCmd(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("separator failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("run separator: %w", err)
	}
	return out, nil
}
