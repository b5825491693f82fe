package batch

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/srinathmkce/imagetoken/pkg/processing/tokens"
	"github.com/srinathmkce/imagetoken/pkg/registry"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, pngBytes(t, width, height), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newTestEstimator(t *testing.T) *tokens.Estimator {
	t.Helper()
	reg, err := registry.NewDefault()
	if err != nil {
		t.Fatalf("registry.NewDefault() error = %v", err)
	}
	return tokens.NewEstimator(reg)
}
