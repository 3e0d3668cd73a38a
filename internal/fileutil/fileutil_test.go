package fileutil

import (
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"video.mp4", ".mp4"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Extension(tt.name); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTempUploadName(t *testing.T) {
	name := TempUploadName("lecture.mp3")
	if !strings.HasPrefix(name, "subtitle_") || !strings.HasSuffix(name, ".mp3") {
		t.Errorf("unexpected temp name %q", name)
	}
	// prefix + 8 hex chars + extension
	if len(name) != len("subtitle_")+8+len(".mp3") {
		t.Errorf("unexpected temp name length: %q", name)
	}

	if TempUploadName("a.wav") == TempUploadName("a.wav") {
		t.Error("expected unique temp names")
	}
}
