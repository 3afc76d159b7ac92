package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSanitizeTarget(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John_Doe"},
		{"john.doe@example.com", "johndoeexamplecom"},
		{"../../etc/passwd", "etcpasswd"},
		{"  spaced out  ", "spaced_out"},
		{"under_score-dash", "under_score-dash"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeTarget(tt.input); got != tt.want {
				t.Errorf("SanitizeTarget(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(dir, zap.NewNop())

	path, err := w.Save("John Doe", "# Report\n\nfindings")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "John_Doe_") {
		t.Errorf("filename %q should start with sanitized target", filepath.Base(path))
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("filename %q should end in .md", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if string(content) != "# Report\n\nfindings" {
		t.Errorf("unexpected content %q", content)
	}
}
