package app

import (
	"os"
	"path/filepath"
	"testing"

	"subtitle-gen-service/internal/config"
)

func TestApplicationLifecycle(t *testing.T) {
	cfg := config.Load()
	cfg.Service.UploadDir = filepath.Join(t.TempDir(), "uploads")

	a := New(cfg)
	if err := a.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Shutdown()

	if a.StartupTime.IsZero() {
		t.Error("expected startup time to be set")
	}
	if _, err := os.Stat(cfg.Service.UploadDir); err != nil {
		t.Errorf("expected upload dir to exist: %v", err)
	}
}
