// Package fileutil holds small file helpers shared by the upload handlers
// and the separation preprocessor.
package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FormatSize renders a byte count as a human readable string using 1024
// steps, e.g. "0 B", "1.0 KB", "2.4 MB".
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(bytes)
	idx := 0
	for value >= 1024 && idx < len(units)-1 {
		value /= 1024
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, units[idx])
}

// Extension returns the extension of filename including the dot, or "" when
// there is none.
func Extension(filename string) string {
	if filename == "" {
		return ""
	}
	return filepath.Ext(filename)
}

// TempUploadName builds a collision-safe name for a saved upload, keeping
// the original extension: "subtitle_<8 hex chars><ext>".
func TempUploadName(originalName string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "subtitle_" + id + Extension(originalName)
}
