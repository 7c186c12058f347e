package receiptparser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mar-formanite/finwise/internal/models"
)

// Engine turns a preprocessed receipt image into multi-line text. The
// production implementation shells out to tesseract; tests use MockEngine.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// DefaultBinary is the OCR binary used when none is configured.
const DefaultBinary = "tesseract"

// TesseractEngine implements Engine using the tesseract command-line tool.
// Recognition time is bounded only by the binary itself; callers needing
// responsiveness pass a context with a deadline.
type TesseractEngine struct {
	Binary    string
	Languages string
}

// NewTesseractEngine creates an engine around the given tesseract binary.
// Empty arguments fall back to "tesseract" and its default language.
func NewTesseractEngine(binary, languages string) *TesseractEngine {
	if binary == "" {
		binary = DefaultBinary
	}
	return &TesseractEngine{Binary: binary, Languages: languages}
}

// Recognize writes the image to a temporary PNG and runs tesseract over it,
// reading the recognized text from stdout.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	tempDir, err := os.MkdirTemp("", "finwise-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	tempFile := filepath.Join(tempDir, "receipt.png")
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, models.PermissionDataFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to encode temporary image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary image: %w", err)
	}

	args := []string{tempFile, "stdout"}
	if e.Languages != "" {
		args = append(args, "-l", e.Languages)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("failed to run %s: %w: %s", e.Binary, err, detail)
		}
		return "", fmt.Errorf("failed to run %s: %w", e.Binary, err)
	}

	return stdout.String(), nil
}
