package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Writer persists finished markdown reports to disk.
type Writer struct {
	outputDir string
	logger    *zap.Logger
}

func NewWriter(outputDir string, logger *zap.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger}
}

// Save writes the report and returns the file path. The filename combines a
// sanitized target with a timestamp so repeated investigations never clash.
func (w *Writer) Save(target, content string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.md", SanitizeTarget(target), time.Now().Format("20060102_150405"))
	path := filepath.Join(w.outputDir, filename)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("Report saved", zap.String("path", path))
	return path, nil
}

// SanitizeTarget reduces a target string to a filesystem-safe slug: only
// letters, digits, spaces, hyphens and underscores survive, and spaces
// become underscores.
func SanitizeTarget(target string) string {
	var sb strings.Builder
	for _, r := range target {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(sb.String()), " ", "_")
}
